package codec

import (
	"bufio"
	"io"
	"strconv"

	"github.com/hupe1980/packedrtree"
)

// maxLineSize bounds a single node line. A node holds at most a few dozen
// children at ~120 bytes each, so 1 MiB leaves ample headroom.
const maxLineSize = 1 << 20

// Decode reconstructs a tree from the encoding produced by Encode.
//
// Lines are read in order while an id→node table resolves child references;
// the table is discarded once the tree is rebuilt. Bottom-up emission
// guarantees the node described by the last line is the root. An internal
// line referencing an id not seen on an earlier line yields
// ErrDanglingReference; empty input yields ErrEmptyTree.
//
// name is used in error messages only.
func Decode(r io.Reader, name string) (*packedrtree.Tree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	byID := make(map[int]*packedrtree.Internal)
	var last packedrtree.Node
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		tokens := extractNumbers(scanner.Text())
		if len(tokens) == 0 {
			continue // Blank line
		}

		node, err := decodeLine(tokens, byID, name, lineNo)
		if err != nil {
			return nil, err
		}
		if in, ok := node.(*packedrtree.Internal); ok {
			byID[in.ID] = in
		}
		last = node
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if last == nil {
		return nil, packedrtree.ErrEmptyTree
	}
	return packedrtree.New(last), nil
}

func decodeLine(tokens []string, byID map[int]*packedrtree.Internal, name string, lineNo int) (packedrtree.Node, error) {
	// A leaf root line carries exactly an id and four coordinates.
	if len(tokens) == 5 {
		id, err := parseInt(tokens[0], name, lineNo)
		if err != nil {
			return nil, err
		}
		mbr, err := parseMBR(tokens[1:5], name, lineNo)
		if err != nil {
			return nil, err
		}
		return &packedrtree.Leaf{ID: id, MBR: mbr}, nil
	}

	if len(tokens) < 7 || (len(tokens)-2)%5 != 0 {
		return nil, packedrtree.NewMalformedInput(name, lineNo, "unexpected token count "+strconv.Itoa(len(tokens)), nil)
	}
	if tokens[0] != "0" && tokens[0] != "1" {
		return nil, packedrtree.NewMalformedInput(name, lineNo, "children-are-leaves flag must be 0 or 1, got "+tokens[0], nil)
	}
	childrenAreLeaves := tokens[0] == "0"

	id, err := parseInt(tokens[1], name, lineNo)
	if err != nil {
		return nil, err
	}

	node := &packedrtree.Internal{ID: id, ChildrenAreLeaves: childrenAreLeaves}
	for i := 2; i < len(tokens); i += 5 {
		childID, err := parseInt(tokens[i], name, lineNo)
		if err != nil {
			return nil, err
		}
		mbr, err := parseMBR(tokens[i+1:i+5], name, lineNo)
		if err != nil {
			return nil, err
		}

		if childrenAreLeaves {
			node.Children = append(node.Children, &packedrtree.Leaf{ID: childID, MBR: mbr})
		} else {
			child, ok := byID[childID]
			if !ok {
				return nil, &packedrtree.ErrDanglingReference{NodeID: id, ChildID: childID}
			}
			node.Children = append(node.Children, child)
		}
	}

	node.RecomputeMBR()
	return node, nil
}

// parseMBR consumes four coordinate tokens in x_low, x_high, y_low, y_high
// order, as laid out on the wire.
func parseMBR(tokens []string, name string, lineNo int) (packedrtree.MBR, error) {
	var coords [4]float64
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return packedrtree.MBR{}, packedrtree.NewMalformedInput(name, lineNo, "bad coordinate "+strconv.Quote(tok), err)
		}
		coords[i] = v
	}
	return packedrtree.MBR{XLow: coords[0], XHigh: coords[1], YLow: coords[2], YHigh: coords[3]}, nil
}

func parseInt(tok, name string, lineNo int) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, packedrtree.NewMalformedInput(name, lineNo, "bad id "+strconv.Quote(tok), err)
	}
	return v, nil
}

// extractNumbers splits a line into numeric tokens. Digits always extend the
// current token; '-' starts one unless it directly follows a digit; '.'
// extends one that already ends in a digit. Everything else separates.
func extractNumbers(line string) []string {
	var numbers []string
	start := -1 // Current token start, -1 when outside a token

	flush := func(end int) {
		if start >= 0 {
			numbers = append(numbers, line[start:end])
			start = -1
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case isDigit(c):
			if start < 0 {
				start = i
			}
		case c == '-' && (i == 0 || !isDigit(line[i-1])):
			flush(i)
			start = i
		case c == '.' && start >= 0 && isDigit(line[i-1]):
			// Keep extending the token.
		default:
			flush(i)
		}
	}
	flush(len(line))

	return numbers
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
