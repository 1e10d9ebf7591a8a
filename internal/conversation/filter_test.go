// ABOUTME: Tests for the topic filter view, the filter set, and sample data
// ABOUTME: Checks case-insensitive substring matching and input immutability

package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	growth := Conversation{ID: "c1", Topics: []string{"growth", "retention"}}
	gtm := Conversation{ID: "c2", Topics: []string{"GTM"}}
	none := Conversation{ID: "c3"}
	all := []Conversation{growth, gtm, none}

	tests := []struct {
		name    string
		filters []string
		want    []string
	}{
		{"no filters passes everything", nil, []string{"c1", "c2", "c3"}},
		{"case-insensitive match", []string{"Retention"}, []string{"c1"}},
		{"substring match", []string{"grow"}, []string{"c1"}},
		{"no match excludes", []string{"zzz"}, []string{}},
		{"any filter suffices", []string{"zzz", "gtm"}, []string{"c2"}},
		{"several matches keep order", []string{"t"}, []string{"c1", "c2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(all, tt.filters)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := []Conversation{{ID: "a", Topics: []string{"PLG"}}, {ID: "b"}}

	out := Filter(in, []string{"plg"})
	require.Len(t, out, 1)
	out[0].ID = "changed"

	assert.Equal(t, "a", in[0].ID)
	assert.Len(t, in, 2)
}

func TestFilterSet_Toggle(t *testing.T) {
	var fs FilterSet

	assert.True(t, fs.Toggle("PLG"))
	assert.True(t, fs.Toggle("GTM"))
	assert.Equal(t, []string{"PLG", "GTM"}, fs.Active())
	assert.True(t, fs.IsActive("GTM"))

	assert.False(t, fs.Toggle("PLG"))
	assert.Equal(t, []string{"GTM"}, fs.Active())
	assert.False(t, fs.IsActive("PLG"))

	fs.Clear()
	assert.Empty(t, fs.Active())
}

func TestFilterSet_ActiveIsCopy(t *testing.T) {
	var fs FilterSet
	fs.Toggle("PLG")

	active := fs.Active()
	active[0] = "changed"

	assert.Equal(t, []string{"PLG"}, fs.Active())
}

func TestSampleConversations(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	samples := SampleConversations(now)

	require.Len(t, samples, 2)
	assert.Equal(t, "sample-1", samples[0].ID)
	assert.Equal(t, "sample-session-1", samples[0].SessionID)
	assert.Equal(t, []string{"PLG", "activation", "onboarding"}, samples[0].Topics)
	require.Len(t, samples[0].Messages, 2)
	assert.Equal(t, RoleAgent, samples[0].Messages[1].Role)
	assert.Len(t, samples[0].Messages[1].Parsed.Perspectives, 3)
	assert.True(t, samples[0].CreatedAt.Before(now))

	samples[0].Topics[0] = "changed"
	assert.Equal(t, "PLG", SampleConversations(now)[0].Topics[0])
}

func TestSampleConversations_Filterable(t *testing.T) {
	got := Filter(SampleConversations(time.Now()), []string{"Retention"})
	require.Len(t, got, 1)
	assert.Equal(t, "sample-2", got[0].ID)
}
