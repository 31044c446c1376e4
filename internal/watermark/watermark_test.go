package watermark

import (
	"testing"
	"time"
)

func TestNeedToStartBoundaries(t *testing.T) {
	today := time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	cases := []struct {
		name  string
		start time.Time
		now   time.Time
		want  bool
	}{
		{"today at 15:05", today, time.Date(2024, 6, 6, 15, 5, 0, 0, time.UTC), false},
		{"today at 15:06", today, time.Date(2024, 6, 6, 15, 6, 0, 0, time.UTC), true},
		{"tomorrow any time", tomorrow, time.Date(2024, 6, 6, 20, 0, 0, 0, time.UTC), false},
		{"yesterday any time", yesterday, time.Date(2024, 6, 6, 9, 0, 0, 0, time.UTC), true},
		{"today before close", today, time.Date(2024, 6, 6, 9, 0, 0, 0, time.UTC), false},
	}

	for _, c := range cases {
		if got := NeedToStart(c.start, c.now); got != c.want {
			t.Errorf("%s: NeedToStart = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestYJBBSeasonsFromExistingSeasonSameYear(t *testing.T) {
	got := YJBBSeasons(&Season{Year: 2024, Season: 2}, 2024)
	want := []Season{{2024, 2}, {2024, 3}, {2024, 4}}
	if !equalSeasons(got, want) {
		t.Fatalf("YJBBSeasons = %v, want %v", got, want)
	}
}

func TestYJBBSeasonsColdStart(t *testing.T) {
	got := YJBBSeasons(nil, 1991)
	want := []Season{{1991, 1}, {1991, 2}, {1991, 3}, {1991, 4}}
	if !equalSeasons(got, want) {
		t.Fatalf("YJBBSeasons(nil, 1991) = %v, want %v", got, want)
	}
}

func TestYJBBSeasonsCrossYear(t *testing.T) {
	got := YJBBSeasons(&Season{Year: 2022, Season: 3}, 2024)
	want := []Season{
		{2022, 3}, {2022, 4},
		{2023, 1}, {2023, 2}, {2023, 3}, {2023, 4},
		{2024, 1}, {2024, 2}, {2024, 3}, {2024, 4},
	}
	if !equalSeasons(got, want) {
		t.Fatalf("YJBBSeasons cross-year = %v, want %v", got, want)
	}
}

func equalSeasons(a, b []Season) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
