package geometry

import (
	"math"
	"testing"
)

func TestDistNMSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{51.4706, -0.4619, 40.6413, -73.7781}, // LHR-JFK
		{45.18, -69.17, 48.9369, -54.5681},
		{-33.9461, 151.1772, 37.6213, -122.3790}, // SYD-SFO, crosses the dateline
		{0, 0, 0, 0},
	}

	for _, p := range pairs {
		ab := DistNM(p[0], p[1], p[2], p[3])
		ba := DistNM(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("asymmetric distance: %f vs %f for %v", ab, ba, p)
		}
		if ab < 0 {
			t.Errorf("negative distance %f for %v", ab, p)
		}
	}
}

func TestDistNMKnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		la1, lo1, la2, lo2, nm float64
	}{
		{"one degree of latitude", 0, 0, 1, 0, 60.04},
		{"LHR to JFK", 51.4706, -0.4619, 40.6413, -73.7781, 2990},
		{"Maine to Gander", 45.18, -69.17, 48.9369, -54.5681, 637.2},
		{"Maine to Halifax", 45.18, -69.17, 44.8808, -63.5086, 240.9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DistNM(tc.la1, tc.lo1, tc.la2, tc.lo2)
			if math.Abs(got-tc.nm) > tc.nm*0.01 {
				t.Errorf("DistNM = %f, want about %f", got, tc.nm)
			}
		})
	}
}

func TestDistNMTriangleInequality(t *testing.T) {
	a := [2]float64{45.18, -69.17}
	b := [2]float64{48.9369, -54.5681}
	c := [2]float64{44.8808, -63.5086}

	ac := DistNM(a[0], a[1], c[0], c[1])
	ab := DistNM(a[0], a[1], b[0], b[1])
	bc := DistNM(b[0], b[1], c[0], c[1])

	if ac > ab+bc+1e-9 {
		t.Errorf("triangle inequality violated: %f > %f + %f", ac, ab, bc)
	}
}

func TestDistNMDateline(t *testing.T) {
	// 2 degrees of longitude across the antimeridian at the equator
	got := DistNM(0, 179, 0, -179)
	want := 2 * 60.04
	if math.Abs(got-want) > 1 {
		t.Errorf("dateline crossing distance = %f, want about %f", got, want)
	}
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		name                    string
		la1, lo1, la2, lo2, deg float64
	}{
		{"due east on the equator", 0, 0, 0, 10, 90},
		{"due west on the equator", 0, 10, 0, 0, 270},
		{"due north", 10, 20, 20, 20, 0},
		{"due south", 20, 20, 10, 20, 180},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := InitialBearing(tc.la1, tc.lo1, tc.la2, tc.lo2)
			if math.Abs(got-tc.deg) > 0.01 {
				t.Errorf("InitialBearing = %f, want %f", got, tc.deg)
			}
		})
	}
}

func TestIsPointInPolygon(t *testing.T) {
	square := [][2]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}}

	if !IsPointInPolygon(5, 5, square) {
		t.Error("center of square reported outside")
	}
	if IsPointInPolygon(15, 5, square) {
		t.Error("point north of square reported inside")
	}
	if IsPointInPolygon(5, 5, square[:2]) {
		t.Error("degenerate polygon reported containment")
	}

	// polygon straddling the antimeridian
	straddle := [][2]float64{{-5, 175}, {-5, -175}, {5, -175}, {5, 175}}
	if !IsPointInPolygon(0, 179, straddle) {
		t.Error("point inside dateline-straddling polygon reported outside")
	}
	if IsPointInPolygon(0, 170, straddle) {
		t.Error("point west of dateline polygon reported inside")
	}
}

func TestRoughAreaOrdering(t *testing.T) {
	small := [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	large := [][2]float64{{0, 0}, {0, 5}, {5, 5}, {5, 0}}

	if RoughArea(small) >= RoughArea(large) {
		t.Errorf("small polygon area %f not below large %f", RoughArea(small), RoughArea(large))
	}
	if RoughArea(small[:2]) != 0 {
		t.Error("degenerate polygon should have zero area")
	}
}
