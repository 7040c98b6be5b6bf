package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "zen.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestScoreRoundTrip saves a few sessions and reads them back in rank
// order.
func TestScoreRoundTrip(t *testing.T) {
	st := openTestStore(t)

	for _, sc := range []Score{
		{StartedAt: 100, EndedAt: 200, Score: 50, Harmony: 3, Patterns: 9, Reason: "energy depleted"},
		{StartedAt: 300, EndedAt: 400, Score: 120.5, Harmony: 10, Patterns: 30, Reason: "harmony reached"},
		{StartedAt: 500, EndedAt: 600, Score: 80, Harmony: 5, Patterns: 15, Reason: "manual"},
	} {
		if id, err := st.SaveScore(sc); err != nil || id == 0 {
			t.Fatalf("SaveScore: id=%d err=%v", id, err)
		}
	}

	top, err := st.TopScores(2)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(top))
	}
	if top[0].Score != 120.5 || top[1].Score != 80 {
		t.Errorf("wrong ranking: %v, %v", top[0].Score, top[1].Score)
	}
	if top[0].Reason != "harmony reached" || top[0].Harmony != 10 {
		t.Errorf("fields lost in round trip: %+v", top[0])
	}
}

// TestSaveScoreFillsEndedAt verifies a zero EndedAt is stamped at save
// time.
func TestSaveScoreFillsEndedAt(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.SaveScore(Score{StartedAt: 1, Score: 5, Reason: "manual"}); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	top, err := st.TopScores(1)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if top[0].EndedAt == 0 {
		t.Error("EndedAt should be stamped")
	}
}

// TestTopScoresEmpty verifies an empty table yields an empty slice, not
// an error.
func TestTopScoresEmpty(t *testing.T) {
	st := openTestStore(t)
	top, err := st.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("expected no scores, got %d", len(top))
	}
}

// TestSettingsFallbackAndUpsert covers the absent-key fallback and the
// upsert path.
func TestSettingsFallbackAndUpsert(t *testing.T) {
	st := openTestStore(t)

	if v, err := st.GetSetting("volume", 0.7); err != nil || v != 0.7 {
		t.Fatalf("fallback: v=%v err=%v", v, err)
	}

	if err := st.PutSetting("volume", 0.3); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}
	if v, _ := st.GetSetting("volume", 0.7); v != 0.3 {
		t.Errorf("stored value lost: %v", v)
	}

	if err := st.PutSetting("volume", 0.9); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if v, _ := st.GetSetting("volume", 0.7); v != 0.9 {
		t.Errorf("upsert did not replace: %v", v)
	}
}
