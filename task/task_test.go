package task

import (
	"math/rand"
	"testing"

	"github.com/massim-go/engine/position"
)

func TestCreateRandomNaming(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	t1 := r.CreateRandom(0, rng, 5, 5, 2, 2, 0, 0)
	if t1.Name != "task0" {
		t.Fatalf("expected task0, got %s", t1.Name)
	}
	t2 := r.CreateRandom(0, rng, 5, 5, 2, 2, 0, 0)
	if t2.Name != "task1" {
		t.Fatalf("expected task1, got %s", t2.Name)
	}
}

func TestCreateRandomRewardMatchesRequirementCount(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(42))
	tk := r.CreateRandom(0, rng, 1, 1, 3, 3, 0, 1)
	if tk.Reward != len(tk.Requirements) {
		t.Fatalf("expected reward %d to equal requirement count %d", tk.Reward, len(tk.Requirements))
	}
	if tk.DeadlineStep != 1 {
		t.Fatalf("expected deadline 1, got %d", tk.DeadlineStep)
	}
}

func TestCreateRandomMinimumSize(t *testing.T) {
	r := NewRegistry()
	rng := rand.New(rand.NewSource(1))
	if tk := r.CreateRandom(0, rng, 1, 1, 0, 0, 0, 0); tk != nil {
		t.Fatalf("expected nil task for size 0, got %v", tk)
	}
}

func TestCreateCustomRejectsEmpty(t *testing.T) {
	r := NewRegistry()
	if tk := r.CreateCustom("t", 0, 5, map[position.Position]string{}); tk != nil {
		t.Fatalf("expected nil for empty requirements")
	}
}

func TestOpenExcludesCompletedAndExpired(t *testing.T) {
	r := NewRegistry()
	reqs := map[position.Position]string{{X: 0, Y: 1}: "b0"}
	a := r.CreateCustom("a", 0, 10, reqs)
	b := r.CreateCustom("b", 0, 1, reqs)
	r.Complete(a.Name)

	open := r.Open(5)
	if len(open) != 0 {
		t.Fatalf("expected no open tasks (a completed, b expired at step 5), got %v", open)
	}
	_ = b
	if len(r.All()) != 2 {
		t.Fatalf("expected expired task still retained in All()")
	}
}
