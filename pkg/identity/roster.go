package identity

import (
	"fmt"

	"github.com/dd0wney/cluso-followgraph/pkg/logging"
)

// Row is one raw line of the master population file.
type Row struct {
	ListedRank    int    `validate:"gte=0"`
	DisplayName   string `validate:"required,max=200"`
	Category      string
	FollowerCount int64  `validate:"gte=0"`
	ProfileURL    string `validate:"omitempty,url"`
	AliasCell     string `validate:"-"` // checked alias by alias
}

// Member is one canonical population entity.
type Member struct {
	CanonicalName string   `json:"canonical_name"`
	Rank          int      `json:"rank"`
	ListedRank    int      `json:"listed_rank,omitempty"`
	Aliases       []string `json:"aliases"`
	Category      string   `json:"category,omitempty"`
	FollowerCount int64    `json:"follower_count"`
	ProfileURL    string   `json:"profile_url,omitempty"`
}

// OriginalRank is the rank printed in reports: the listed rank when the
// master file had one, otherwise the first-seen position.
func (m *Member) OriginalRank() int {
	if m.ListedRank > 0 {
		return m.ListedRank
	}
	return m.Rank
}

// Roster is the fixed, rank-ordered member set of one run plus the alias
// index. It is immutable once built.
type Roster struct {
	members []*Member
	byName  map[string]int
	byAlias map[string]int
}

// Collision records an alias claimed by more than one canonical member.
type Collision struct {
	Alias   string
	Kept    string
	Dropped string
}

// BuildRoster canonicalizes master rows. Rows normalizing to an existing
// canonical name merge their aliases into the first-seen member and keep its
// metadata. An alias already claimed by another member stays with the first
// claimant; the collision is logged and returned.
func BuildRoster(rows []Row, logger logging.Logger) (*Roster, []Collision) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := &Roster{
		members: make([]*Member, 0, len(rows)),
		byName:  make(map[string]int, len(rows)),
		byAlias: make(map[string]int, len(rows)),
	}
	var collisions []Collision

	for _, row := range rows {
		name := CanonicalName(row.DisplayName)
		if name == "" {
			logger.Warn("master row without display name skipped", logging.String("alias_cell", row.AliasCell))
			continue
		}

		idx, seen := r.byName[name]
		if !seen {
			idx = len(r.members)
			r.members = append(r.members, &Member{
				CanonicalName: name,
				Rank:          idx + 1,
				ListedRank:    row.ListedRank,
				Category:      row.Category,
				FollowerCount: row.FollowerCount,
				ProfileURL:    row.ProfileURL,
			})
			r.byName[name] = idx
		}

		member := r.members[idx]
		for _, alias := range SplitAliases(row.AliasCell) {
			owner, claimed := r.byAlias[alias]
			if !claimed {
				r.byAlias[alias] = idx
				member.Aliases = append(member.Aliases, alias)
				continue
			}
			if owner != idx {
				c := Collision{Alias: alias, Kept: r.members[owner].CanonicalName, Dropped: name}
				collisions = append(collisions, c)
				logger.Warn("alias claimed by two members, keeping first",
					logging.Alias(alias),
					logging.String("kept", c.Kept),
					logging.String("dropped", c.Dropped))
			}
		}
	}

	return r, collisions
}

// NewRoster rebuilds a roster from members already canonicalized by a
// previous stage. Ranks are reassigned from slice order.
func NewRoster(members []*Member) (*Roster, error) {
	r := &Roster{
		members: make([]*Member, 0, len(members)),
		byName:  make(map[string]int, len(members)),
		byAlias: make(map[string]int, len(members)),
	}
	for _, m := range members {
		if _, dup := r.byName[m.CanonicalName]; dup {
			return nil, fmt.Errorf("duplicate canonical name %q", m.CanonicalName)
		}
		idx := len(r.members)
		copied := *m
		copied.Rank = idx + 1
		copied.Aliases = append([]string(nil), m.Aliases...)
		r.members = append(r.members, &copied)
		r.byName[m.CanonicalName] = idx
		for _, alias := range copied.Aliases {
			if _, claimed := r.byAlias[alias]; !claimed {
				r.byAlias[alias] = idx
			}
		}
	}
	return r, nil
}

// Size is the population size.
func (r *Roster) Size() int {
	return len(r.members)
}

// Members returns the members in rank order.
func (r *Roster) Members() []*Member {
	return r.members
}

// Member returns the member at index i (rank i+1).
func (r *Roster) Member(i int) *Member {
	return r.members[i]
}

// Names returns canonical names in rank order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.CanonicalName
	}
	return names
}

// Index returns the matrix index of a canonical name.
func (r *Roster) Index(canonical string) (int, bool) {
	i, ok := r.byName[canonical]
	return i, ok
}

// Resolve maps a raw alias to its member index. The alias is normalized first.
func (r *Roster) Resolve(rawAlias string) (int, bool) {
	i, ok := r.byAlias[NormalizeAlias(rawAlias)]
	return i, ok
}
