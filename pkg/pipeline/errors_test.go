package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dd0wney/cluso-followgraph/pkg/artifact"
	"github.com/dd0wney/cluso-followgraph/pkg/community"
	"github.com/dd0wney/cluso-followgraph/pkg/network"
	"github.com/dd0wney/cluso-followgraph/pkg/report"
)

func TestStageError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "full",
			err:  NewError("edges").Entity("edge list").Path("out/edge_list.csv").Context("write").Cause(errors.New("disk full")).Err(),
			want: "edges edge list out/edge_list.csv (write): disk full",
		},
		{
			name: "stage only",
			err:  NewError("summary").Cause(errors.New("boom")).Err(),
			want: "summary: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestStageError_Classification(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		kind  error
	}{
		{"artifact missing", fmt.Errorf("%w: members.json", artifact.ErrNotFound), ErrInputMissing},
		{"report input missing", fmt.Errorf("%w: partition", report.ErrInputMissing), ErrInputMissing},
		{"malformed artifact", fmt.Errorf("%w: bad row", artifact.ErrMalformed), ErrMalformedInput},
		{"unknown member", network.ErrUnknownMember, ErrMalformedInput},
		{"population", network.ErrPopulationTooSmall, ErrConfig},
		{"unknown algorithm", community.ErrUnknownAlgorithm, ErrUnknownAlgorithm},
		{"duplicate algorithm", community.ErrDuplicateAlgorithm, ErrUnknownAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewError("stage").Cause(tt.cause).Err()
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestStageError_Unclassified(t *testing.T) {
	cause := errors.New("plain")
	err := NewError("stage").Cause(cause).Build()

	assert.Nil(t, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInputMissing)
	assert.False(t, IsFatal(err))
}

func TestStageError_ExplicitKind(t *testing.T) {
	err := NewError("communities").Kind(ErrMalformedInput).Cause(fmt.Errorf("%w: x", artifact.ErrNotFound)).Err()

	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.NotErrorIs(t, err, ErrInputMissing)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestInputAndOutputErrors(t *testing.T) {
	in := InputError("matrix", "edge list", "out/edge_list.csv", fmt.Errorf("%w: out/edge_list.csv", artifact.ErrNotFound))
	assert.ErrorIs(t, in, ErrInputMissing)

	out := OutputError("matrix", "metrics report", "out/metrics_report.csv", errors.New("read-only"))
	assert.Contains(t, out.Error(), "(write)")
}
