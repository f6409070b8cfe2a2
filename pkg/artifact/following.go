package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-followgraph/pkg/edges"
)

// ReadFollowingDir loads every "<alias><suffix>.csv" file in dir, in file
// name order. Other files are ignored.
func ReadFollowingDir(dir, suffix string) ([]edges.FollowingList, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, notFound(dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	lists := make([]edges.FollowingList, 0, len(names))
	for _, name := range names {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		alias, ok := strings.CutSuffix(base, suffix)
		if !ok || alias == "" {
			continue
		}

		list, err := ReadFollowingList(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		list.SourceAlias = alias
		lists = append(lists, *list)
	}
	return lists, nil
}

// ReadFollowingList parses one following-list file. The source alias is left
// for the caller to set.
func ReadFollowingList(path string) (*edges.FollowingList, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, notFound(path, err)
	}

	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	cols := indexColumns(header)
	aliasCol := cols.find("followed_account_alias", "username")
	idCol := cols.find("followed_external_id", "ig_user_id")
	nameCol := cols.find("followed_display_name", "full_name")
	if aliasCol < 0 {
		return nil, fmt.Errorf("%w: %s: followed_account_alias column is required", ErrMalformed, path)
	}

	list := &edges.FollowingList{
		Origin:     path,
		ObservedAt: info.ModTime(),
		Rows:       make([]edges.FollowRow, 0, len(records)),
	}
	for _, rec := range records {
		list.Rows = append(list.Rows, edges.FollowRow{
			TargetAlias: cell(rec, aliasCol),
			ExternalID:  cell(rec, idCol),
			DisplayName: cell(rec, nameCol),
		})
	}
	return list, nil
}
