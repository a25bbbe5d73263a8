package umfile

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrStashParse is returned for a malformed STASHmaster record.
var ErrStashParse = errors.New("malformed STASHmaster")

// STASH grid type codes used by validation.
const (
	GridP          = 1
	GridPLand      = 2
	GridPSea       = 3
	GridUV         = 11
	GridUVLand     = 12
	GridUVSea      = 13
	GridU          = 18
	GridV          = 19
	GridPLBC       = 21
	GridRiver      = 23
	GridPLBCSmall  = 26
	GridULBC       = 27
	GridVLBC       = 28
	GridPLBCHalo   = 29
	stashEndOfFile = "END OF FILE MARK"
)

// StashEntry is the part of a STASHmaster record validation uses.
type StashEntry struct {
	Model   int
	Section int
	Item    int
	Name    string
	Grid    int
}

// Code returns the STASH code as stored in lbuser4.
func (e StashEntry) Code() int64 { return int64(e.Section)*1000 + int64(e.Item) }

// StashTable looks up STASH entries by code.
type StashTable interface {
	Lookup(code int64) (StashEntry, bool)
}

// StashMap is a StashTable held in a map.
type StashMap map[int64]StashEntry

// Lookup implements StashTable.
func (m StashMap) Lookup(code int64) (StashEntry, bool) {
	e, ok := m[code]
	return e, ok
}

// Add stores an entry under its code.
func (m StashMap) Add(e StashEntry) { m[e.Code()] = e }

// ParseStashMaster reads a STASHmaster file. Each record is five lines
// numbered 1 to 5 whose "|" separated values run on from one line to the
// next; the first eight are model, section, item, name, space, point, time
// and grid.
func ParseStashMaster(r io.Reader) (StashMap, error) {
	m := make(StashMap)
	sc := bufio.NewScanner(r)
	var (
		record []string
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		n, rest, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || idx < 1 || idx > 5 {
			continue
		}
		if idx != len(record)+1 {
			return nil, errors.Wrapf(ErrStashParse, "line %d: record line %d out of order", lineNo, idx)
		}
		record = append(record, strings.TrimSuffix(strings.TrimSpace(rest), "|"))
		if idx < 5 {
			continue
		}

		e, err := parseStashRecord(strings.Join(record, "|"))
		record = record[:0]
		if err != nil {
			return nil, errors.Wrapf(err, "record ending at line %d", lineNo)
		}
		if e.Name == stashEndOfFile {
			continue
		}
		m.Add(e)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading STASHmaster")
	}
	return m, nil
}

func parseStashRecord(s string) (StashEntry, error) {
	parts := strings.Split(s, "|")
	if len(parts) < 8 {
		return StashEntry{}, errors.Wrapf(ErrStashParse, "%d values", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	var (
		e    = StashEntry{Name: parts[3]}
		ints = []*int{&e.Model, &e.Section, &e.Item}
	)
	for i, p := range ints {
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return StashEntry{}, errors.Wrapf(ErrStashParse, "value %d: %q", i+1, parts[i])
		}
		*p = v
	}
	grid, err := strconv.Atoi(parts[7])
	if err != nil {
		return StashEntry{}, errors.Wrapf(ErrStashParse, "grid %q", parts[7])
	}
	e.Grid = grid
	return e, nil
}
