package artifact

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-followgraph/pkg/identity"
)

// ReadMasterList parses the master population file. Header names are
// matched case-insensitively and several spellings are accepted per column;
// display_name and account_alias are required.
func ReadMasterList(path string) ([]identity.Row, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	cols := indexColumns(header)
	rankCol := cols.find("rank", "order")
	nameCol := cols.find("display_name", "person_name")
	categoryCol := cols.find("category")
	followersCol := cols.find("follower_count", "followers")
	urlCol := cols.find("profile_url", "ig_url")
	aliasCol := cols.find("account_alias", "ig_id")

	if nameCol < 0 || aliasCol < 0 {
		return nil, fmt.Errorf("%w: %s: display_name and account_alias columns are required", ErrMalformed, path)
	}

	rows := make([]identity.Row, 0, len(records))
	for i, rec := range records {
		line := i + 2

		rank, err := parseCount(cell(rec, rankCol))
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: rank: %v", ErrMalformed, path, line, err)
		}
		followers, err := parseCount(cell(rec, followersCol))
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: follower_count: %v", ErrMalformed, path, line, err)
		}

		rows = append(rows, identity.Row{
			ListedRank:    int(rank),
			DisplayName:   cell(rec, nameCol),
			Category:      cell(rec, categoryCol),
			FollowerCount: followers,
			ProfileURL:    cell(rec, urlCol),
			AliasCell:     cell(rec, aliasCol),
		})
	}
	return rows, nil
}

// parseCount parses an optional integer that may carry digit grouping.
func parseCount(s string) (int64, error) {
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	// Exports sometimes write integers as floats
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// WriteMembers writes the resolved roster.
func WriteMembers(path string, members []*identity.Member) error {
	return writeJSON(path, members)
}

// ReadMembers reads a roster written by WriteMembers.
func ReadMembers(path string) (*identity.Roster, error) {
	var members []*identity.Member
	if err := readJSON(path, &members); err != nil {
		return nil, err
	}
	roster, err := identity.NewRoster(members)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return roster, nil
}
