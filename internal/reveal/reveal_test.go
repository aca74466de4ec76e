package reveal

import (
	"fmt"
	"testing"
)

func lines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i+1)
	}
	return out
}

func TestEnter(t *testing.T) {
	tests := []struct {
		name string
		n    int
		dir  Direction
		want int
	}{
		{"forward reveals first line", 5, Forward, 1},
		{"backward reveals all lines", 5, Backward, 5},
		{"forward single line", 1, Forward, 1},
		{"backward single line", 1, Backward, 1},
		{"forward empty page", 0, Forward, 0},
		{"backward empty page", 0, Backward, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Enter(lines(tt.n), tt.dir).Revealed; got != tt.want {
				t.Errorf("Enter().Revealed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestForward_MonotonicUntilBoundary(t *testing.T) {
	for n := 1; n <= 6; n++ {
		s := Enter(lines(n), Forward)
		prev := s.Revealed
		steps := 0
		for {
			next, ok := s.Forward()
			if !ok {
				break
			}
			if next.Revealed < prev || next.Revealed > n {
				t.Fatalf("n=%d: revealed went from %d to %d", n, prev, next.Revealed)
			}
			prev = next.Revealed
			s = next
			steps++
		}
		if s.Revealed != n {
			t.Errorf("n=%d: boundary reached at %d, want %d", n, s.Revealed, n)
		}
		if steps != n-1 {
			t.Errorf("n=%d: took %d reveal steps, want %d", n, steps, n-1)
		}
		if !s.Complete() {
			t.Errorf("n=%d: Complete() = false at boundary", n)
		}
	}
}

func TestBackward_Boundary(t *testing.T) {
	s := Enter(lines(3), Backward)

	s, ok := s.Backward()
	if !ok || s.Revealed != 2 {
		t.Fatalf("Backward() = %d, %v; want 2, true", s.Revealed, ok)
	}
	s, ok = s.Backward()
	if !ok || s.Revealed != 1 {
		t.Fatalf("Backward() = %d, %v; want 1, true", s.Revealed, ok)
	}
	s, ok = s.Backward()
	if ok || s.Revealed != 1 {
		t.Errorf("Backward() at first line = %d, %v; want 1, false", s.Revealed, ok)
	}
}

func TestEmptyPage_AlwaysBoundary(t *testing.T) {
	s := Enter(nil, Forward)
	if _, ok := s.Forward(); ok {
		t.Error("Forward() on empty page should be a boundary")
	}
	if _, ok := s.Backward(); ok {
		t.Error("Backward() on empty page should be a boundary")
	}
	if s.Text() != "" {
		t.Errorf("Text() = %q, want empty", s.Text())
	}
}

func TestRevealSymmetry(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for _, dir := range []Direction{Forward, Backward} {
			start := Enter(lines(n), dir)
			// k forward steps that actually reveal, followed by k backward steps
			for k := 0; k <= n-start.Revealed; k++ {
				s := start
				for i := 0; i < k; i++ {
					s, _ = s.Forward()
				}
				for i := 0; i < k; i++ {
					s, _ = s.Backward()
				}
				if s.Revealed != start.Revealed {
					t.Errorf("n=%d dir=%v k=%d: revealed %d, want %d", n, dir, k, s.Revealed, start.Revealed)
				}
			}
		}
	}
}

func TestText(t *testing.T) {
	s := Enter([]string{"alpha", "beta", "gamma"}, Forward)
	if got := s.Text(); got != "alpha" {
		t.Errorf("Text() = %q, want alpha", got)
	}

	s, _ = s.Forward()
	if got := s.Text(); got != "alpha"+Separator+"beta" {
		t.Errorf("Text() = %q", got)
	}
}

func TestDirection_String(t *testing.T) {
	if Forward.String() != "forward" || Backward.String() != "backward" {
		t.Error("unexpected direction names")
	}
}
