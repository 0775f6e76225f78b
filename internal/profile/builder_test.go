package profile

import (
	"context"
	"errors"
	"math"
	"testing"
)

// fakeGraph is a stub GraphSource returning fixed edge lists.
type fakeGraph struct {
	subs    []string
	friends []string
	follows []string
	err     error
}

func (f *fakeGraph) Subscriptions(ctx context.Context, viewerID string) ([]string, error) {
	return f.subs, f.err
}

func (f *fakeGraph) Friendships(ctx context.Context, viewerID string) ([]string, error) {
	return f.friends, f.err
}

func (f *fakeGraph) Follows(ctx context.Context, viewerID string) ([]string, error) {
	return f.follows, f.err
}

// fakeActivity is a stub ActivitySource returning fixed embeddings.
type fakeActivity struct {
	liked   [][]float64
	own     [][]float64
	network [][]float64
	err     error
}

func (f *fakeActivity) RecentLikes(ctx context.Context, viewerID string, limit int) ([][]float64, error) {
	return f.liked, f.err
}

func (f *fakeActivity) RecentOwnItems(ctx context.Context, viewerID string, limit int) ([][]float64, error) {
	return f.own, f.err
}

func (f *fakeActivity) NetworkItems(ctx context.Context, viewerID string, limit int) ([][]float64, error) {
	return f.network, f.err
}

// fakePrefs is a stub PreferenceSource.
type fakePrefs struct {
	prefs *Preferences
	err   error
}

func (f *fakePrefs) Preferences(ctx context.Context, viewerID string) (*Preferences, error) {
	return f.prefs, f.err
}

// fakeNegatives is a stub NegativeSignalSource.
type fakeNegatives struct {
	muted   []string
	blocked []string
}

func (f *fakeNegatives) Muted(ctx context.Context, viewerID string) ([]string, error) {
	return f.muted, nil
}

func (f *fakeNegatives) Blocked(ctx context.Context, viewerID string) ([]string, error) {
	return f.blocked, nil
}

// TestBuildRelationshipPrecedence verifies the disjoint-by-precedence
// relationship sets and their weights.
func TestBuildRelationshipPrecedence(t *testing.T) {
	graph := &fakeGraph{
		subs:    []string{"ana"},
		friends: []string{"ana", "ben"},
		follows: []string{"ana", "ben", "cam"},
	}
	b := NewBuilder(graph, &fakeActivity{}, &fakePrefs{})

	p, err := b.Build(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	if len(p.Subscribed) != 1 || len(p.Friends) != 1 || len(p.Followed) != 1 {
		t.Fatalf("expected disjoint sets of size 1 each, got %d/%d/%d",
			len(p.Subscribed), len(p.Friends), len(p.Followed))
	}

	weights := map[string]float64{
		"ana":     2.0,
		"ben":     1.5,
		"cam":     1.0,
		"unknown": 0.1,
	}
	for id, want := range weights {
		if got := p.RelationshipWeight(id); math.Abs(got-want) > 0.001 {
			t.Errorf("RelationshipWeight(%q) = %f, want %f", id, got, want)
		}
	}
}

// TestBuildAggregateActivity verifies the activity aggregation formula.
func TestBuildAggregateActivity(t *testing.T) {
	activity := &fakeActivity{
		liked: [][]float64{{1, 0}},
		own:   [][]float64{{0, 1}},
	}
	prefs := &fakePrefs{prefs: &Preferences{Embedding: []float64{1, 1}}}
	b := NewBuilder(&fakeGraph{}, activity, prefs)

	p, err := b.Build(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	// (0.4*[1,0] + 0.2*[0,1] + 0.1*[1,1]) / 0.7 = [0.5/0.7, 0.3/0.7]
	expected := []float64{0.5 / 0.7, 0.3 / 0.7}
	if len(p.Aggregate) != 2 {
		t.Fatalf("expected 2-dimensional aggregate, got %v", p.Aggregate)
	}
	for i := range expected {
		if math.Abs(p.Aggregate[i]-expected[i]) > 0.0001 {
			t.Errorf("aggregate[%d] = %f, want %f", i, p.Aggregate[i], expected[i])
		}
	}
}

// TestBuildAggregateBlended verifies the blended strategy folds in network
// content at weight 0.3.
func TestBuildAggregateBlended(t *testing.T) {
	activity := &fakeActivity{
		liked:   [][]float64{{1, 0}},
		network: [][]float64{{0, 1}},
	}
	b := NewBuilder(&fakeGraph{}, activity, &fakePrefs{}, WithAggregation(AggregateBlended))

	p, err := b.Build(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	// (0.4*[1,0] + 0.3*[0,1]) / 0.7 = [4/7, 3/7]
	expected := []float64{4.0 / 7.0, 3.0 / 7.0}
	for i := range expected {
		if math.Abs(p.Aggregate[i]-expected[i]) > 0.0001 {
			t.Errorf("aggregate[%d] = %f, want %f", i, p.Aggregate[i], expected[i])
		}
	}
}

// TestBuildAggregateAbsent verifies a viewer with no embeddings gets a nil
// aggregate, not a zero-filled one.
func TestBuildAggregateAbsent(t *testing.T) {
	b := NewBuilder(&fakeGraph{}, &fakeActivity{}, &fakePrefs{})

	p, err := b.Build(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}
	if p.Aggregate != nil {
		t.Errorf("expected nil aggregate for new user, got %v", p.Aggregate)
	}
}

// TestBuildMismatchedDimensionsSkipped verifies embeddings with a different
// dimensionality than the rest are skipped rather than erroring.
func TestBuildMismatchedDimensionsSkipped(t *testing.T) {
	activity := &fakeActivity{
		liked: [][]float64{{1, 0}, {1, 2, 3}},
	}
	b := NewBuilder(&fakeGraph{}, activity, &fakePrefs{})

	p, err := b.Build(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	expected := []float64{1, 0}
	if len(p.Aggregate) != 2 {
		t.Fatalf("expected 2-dimensional aggregate, got %v", p.Aggregate)
	}
	for i := range expected {
		if math.Abs(p.Aggregate[i]-expected[i]) > 0.0001 {
			t.Errorf("aggregate[%d] = %f, want %f", i, p.Aggregate[i], expected[i])
		}
	}
}

// TestBuildPropagatesFetchFailure verifies that a failed signal fetch fails
// the whole build rather than degrading silently.
func TestBuildPropagatesFetchFailure(t *testing.T) {
	fetchErr := errors.New("graph store unreachable")
	b := NewBuilder(&fakeGraph{err: fetchErr}, &fakeActivity{}, &fakePrefs{})

	if _, err := b.Build(context.Background(), "viewer-1"); !errors.Is(err, fetchErr) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

// TestBuildNegativeSignals verifies mute/block sets and the default no-op
// source.
func TestBuildNegativeSignals(t *testing.T) {
	t.Run("noop default is empty", func(t *testing.T) {
		b := NewBuilder(&fakeGraph{}, &fakeActivity{}, &fakePrefs{})
		p, err := b.Build(context.Background(), "viewer-1")
		if err != nil {
			t.Fatalf("Build() returned error: %v", err)
		}
		if len(p.Muted) != 0 || len(p.Blocked) != 0 {
			t.Errorf("expected empty negative sets, got %d muted, %d blocked",
				len(p.Muted), len(p.Blocked))
		}
	})

	t.Run("substituted source populates sets", func(t *testing.T) {
		negatives := &fakeNegatives{muted: []string{"spammer"}, blocked: []string{"troll"}}
		b := NewBuilder(&fakeGraph{}, &fakeActivity{}, &fakePrefs{}, WithNegativeSignals(negatives))
		p, err := b.Build(context.Background(), "viewer-1")
		if err != nil {
			t.Fatalf("Build() returned error: %v", err)
		}
		if !p.Excluded("spammer") || !p.Excluded("troll") {
			t.Error("expected muted and blocked authors to be excluded")
		}
		if p.Excluded("ana") {
			t.Error("unrelated author should not be excluded")
		}
	})
}

// TestBuildPreferences verifies explicit preference propagation.
func TestBuildPreferences(t *testing.T) {
	prefs := &fakePrefs{prefs: &Preferences{
		Interests: []string{"synth", "analog"},
		GeoCell:   "dr5regw3",
	}}
	b := NewBuilder(&fakeGraph{}, &fakeActivity{}, prefs)

	p, err := b.Build(context.Background(), "viewer-1")
	if err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}
	if len(p.Interests) != 2 {
		t.Errorf("expected 2 interests, got %d", len(p.Interests))
	}
	if p.GeoCell != "dr5regw3" {
		t.Errorf("expected geo cell dr5regw3, got %q", p.GeoCell)
	}
}
