package model

import (
	"testing"
	"time"
)

func TestDeriveStatusPending(t *testing.T) {
	task := DailyTask{TotalItems: 20, CompletedItems: 0}
	task.DeriveStatus(time.Now())

	if task.Status != TaskPending {
		t.Fatalf("status = %s, want %s", task.Status, TaskPending)
	}
	if task.CompletedAt != nil {
		t.Error("pending task must not carry a completion time")
	}
}

func TestDeriveStatusInProgress(t *testing.T) {
	task := DailyTask{TotalItems: 20, CompletedItems: 5}
	task.DeriveStatus(time.Now())

	if task.Status != TaskProgress {
		t.Fatalf("status = %s, want %s", task.Status, TaskProgress)
	}
}

func TestDeriveStatusCompletedStampsOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	task := DailyTask{TotalItems: 20, CompletedItems: 20}
	task.DeriveStatus(now)

	if task.Status != TaskCompleted {
		t.Fatalf("status = %s, want %s", task.Status, TaskCompleted)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatal("first completion must stamp the completion time")
	}

	// 已完成的任务重推状态不重写完成时间
	later := now.Add(time.Hour)
	task.DeriveStatus(later)
	if !task.CompletedAt.Equal(now) {
		t.Error("re-deriving a completed task must keep the original completion time")
	}
}

func TestDeriveStatusOverCompleted(t *testing.T) {
	task := DailyTask{TotalItems: 10, CompletedItems: 15}
	task.DeriveStatus(time.Now())
	if task.Status != TaskCompleted {
		t.Fatalf("over-completed task must read completed, got %s", task.Status)
	}
}

func TestDeriveStatusZeroTotal(t *testing.T) {
	task := DailyTask{TotalItems: 0, CompletedItems: 0}
	task.DeriveStatus(time.Now())
	if task.Status != TaskPending {
		t.Fatalf("zero-item task must stay pending, got %s", task.Status)
	}
}
