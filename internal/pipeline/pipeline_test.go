package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/ballotops/electiontidy/internal/model"
)

// fakeStep is a configurable step for pipeline tests.
type fakeStep struct {
	name string
	err  error
	do   func(run *model.Run)
}

func (s *fakeStep) Do(_ context.Context, run *model.Run) error {
	if s.do != nil {
		s.do(run)
	}
	return s.err
}

func (s *fakeStep) Name() string {
	return s.name
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		p.AddSteps(
			&fakeStep{name: "first", do: func(*model.Run) { order = append(order, "first") }},
			&fakeStep{name: "second", do: func(*model.Run) { order = append(order, "second") }},
		)

		run := model.NewRun("input.json")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected steps in order, got %v", order)
		}
		if len(run.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %d", len(run.PerformedSteps))
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("lookup failed")
		var secondRan bool

		p := New()
		p.AddSteps(
			&fakeStep{name: "failing", err: wantErr},
			&fakeStep{name: "after", do: func(*model.Run) { secondRan = true }},
		)

		run := model.NewRun("input.json")
		if err := p.Execute(context.Background(), run); !errors.Is(err, wantErr) {
			t.Errorf("expected step error, got %v", err)
		}
		if secondRan {
			t.Error("expected pipeline to stop after failure")
		}
		if !run.Failed() {
			t.Error("expected run to record failure")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		var secondRan bool
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&fakeStep{name: "failing", err: errors.New("boom")},
			&fakeStep{name: "after", do: func(*model.Run) { secondRan = true }},
		)

		run := model.NewRun("input.json")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Errorf("expected nil error with continueOnError, got %v", err)
		}
		if !secondRan {
			t.Error("expected later steps to run")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ran bool
		p := New()
		p.AddStep(&fakeStep{name: "never", do: func(*model.Run) { ran = true }})

		run := model.NewRun("input.json")
		if err := p.Execute(ctx, run); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if ran {
			t.Error("expected no step to run after cancellation")
		}
	})

	t.Run("records run duration", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&fakeStep{name: "noop"})

		run := model.NewRun("input.json")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Duration <= 0 {
			t.Error("expected positive run duration")
		}
	})
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&fakeStep{name: "a"}, &fakeStep{name: "b"})

	if p.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", p.StepCount())
	}

	names := p.StepNames()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("expected [a b], got %v", names)
	}
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(nil)

	want := []string{"load", "extract", "tidy-elections", "tidy-voting-methods", "write"}
	got := p.StepNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("expected step %d to be %q, got %q", i, name, got[i])
		}
	}
}
