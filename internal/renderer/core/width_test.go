package core

import (
	"slices"
	"testing"
)

func TestCells(t *testing.T) {
	tests := []struct {
		cluster string
		want    int
	}{
		{"a", 1},
		{"世", 2},
		{"é", 1},
		{"👍🏽", 2},
		{"\t", 1},
		{"\n", 0},
		{"\r\n", 0},
	}
	for _, tt := range tests {
		if got := Cells(tt.cluster); got != tt.want {
			t.Errorf("Cells(%q) = %d, want %d", tt.cluster, got, tt.want)
		}
	}
}

func TestClusters(t *testing.T) {
	var clusters []string
	var cells []int
	Clusters("👍🏽xe\u0301\n", func(c string, n int) bool {
		clusters = append(clusters, c)
		cells = append(cells, n)
		return true
	})

	if want := []string{"👍🏽", "x", "e\u0301", "\n"}; !slices.Equal(clusters, want) {
		t.Errorf("clusters = %q, want %q", clusters, want)
	}
	if want := []int{2, 1, 1, 0}; !slices.Equal(cells, want) {
		t.Errorf("cells = %v, want %v", cells, want)
	}
}

func TestClustersStops(t *testing.T) {
	n := 0
	Clusters("abc", func(string, int) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("visited %d clusters, want 2", n)
	}
}
