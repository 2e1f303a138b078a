package system

import (
	"errors"
	"testing"
)

func TestCleanupStackRunsInReverseOrder(t *testing.T) {
	stack := NewCleanupStack()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		stack.Add(func() error {
			order = append(order, i)
			return nil
		})
	}

	if err := stack.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("execution order = %v, want [3 2 1]", order)
	}
}

func TestCleanupStackCollectsErrors(t *testing.T) {
	stack := NewCleanupStack()
	stack.Add(func() error { return errors.New("first") })
	stack.Add(func() error { return nil })
	stack.Add(func() error { return errors.New("last") })

	err := stack.Execute()
	if err == nil {
		t.Fatal("Execute() error = nil, want aggregated errors")
	}
}

func TestCleanupStackClear(t *testing.T) {
	stack := NewCleanupStack()

	ran := false
	stack.Add(func() error {
		ran = true
		return nil
	})
	stack.Clear()

	if err := stack.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ran {
		t.Error("cleanup ran after Clear()")
	}
}
