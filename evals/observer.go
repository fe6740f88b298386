/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"path"
	"sort"
	"sync"
	"sync/atomic"

	"chainguard.dev/gradekit/grading"
)

// Observer receives the outcome of each graded item.
type Observer interface {
	// Fail marks the current item as failed with the given message.
	Fail(string)
	// Log records an informational message.
	Log(string)
	// Grade records a score in [0.0, 1.0] with its reasoning.
	Grade(score float64, reasoning string)
	// Increment is called once per graded item.
	Increment()
	// Total returns the number of items observed.
	Total() int64
}

// Record reports result to obs. The score is scaled into [0.0, 1.0] and a
// result that did not pass is also reported as a failure.
func Record(obs Observer, result grading.Result) {
	obs.Increment()
	obs.Grade(result.Score/grading.MaxScore, result.Feedback)
	if !result.Passed {
		obs.Fail(result.Feedback)
	}
}

type counter struct{ n atomic.Int64 }

func (*counter) Fail(string) {}
func (*counter) Log(string) {}
func (*counter) Grade(float64, string) {}
func (c *counter) Increment() { c.n.Add(1) }
func (c *counter) Total() int64 { return c.n.Load() }

// Counter returns an Observer that only counts.
func Counter() Observer { return &counter{} }

// NamespacedObserver provides hierarchical namespacing for Observer instances.
type NamespacedObserver[T Observer] struct {
	name     string
	inner    T
	factory  func(string) T
	children map[string]*NamespacedObserver[T]
	mu       sync.Mutex
}

// NewNamespacedObserver creates a root NamespacedObserver. factory builds the
// Observer for each namespace path.
func NewNamespacedObserver[T Observer](factory func(string) T) *NamespacedObserver[T] {
	return &NamespacedObserver[T]{
		name:     "/",
		inner:    factory("/"),
		factory:  factory,
		children: make(map[string]*NamespacedObserver[T]),
	}
}

// Name returns the namespace path.
func (n *NamespacedObserver[T]) Name() string { return n.name }

// Inner returns the Observer for this namespace.
func (n *NamespacedObserver[T]) Inner() T { return n.inner }

// Fail delegates to the inner Observer.
func (n *NamespacedObserver[T]) Fail(msg string) { n.inner.Fail(msg) }

// Log delegates to the inner Observer.
func (n *NamespacedObserver[T]) Log(msg string) { n.inner.Log(msg) }

// Grade delegates to the inner Observer.
func (n *NamespacedObserver[T]) Grade(score float64, reasoning string) {
	n.inner.Grade(score, reasoning)
}

// Increment delegates to the inner Observer.
func (n *NamespacedObserver[T]) Increment() { n.inner.Increment() }

// Total delegates to the inner Observer.
func (n *NamespacedObserver[T]) Total() int64 { return n.inner.Total() }

// Child returns the child namespace with the given name, creating it if
// necessary.
func (n *NamespacedObserver[T]) Child(name string) *NamespacedObserver[T] {
	n.mu.Lock()
	defer n.mu.Unlock()

	if child, ok := n.children[name]; ok {
		return child
	}
	childPath := path.Join(n.name, name)
	child := &NamespacedObserver[T]{
		name:     childPath,
		inner:    n.factory(childPath),
		factory:  n.factory,
		children: make(map[string]*NamespacedObserver[T]),
	}
	n.children[name] = child
	return child
}

// Scope returns the descendant reached by following names from n.
func (n *NamespacedObserver[T]) Scope(names ...string) *NamespacedObserver[T] {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
	}
	return cur
}

// Walk visits n and then its descendants depth-first, children in sorted
// order by name.
func (n *NamespacedObserver[T]) Walk(visitor func(string, T)) {
	visitor(n.name, n.inner)

	n.mu.Lock()
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	n.mu.Unlock()
	sort.Strings(names)

	for _, name := range names {
		n.mu.Lock()
		child := n.children[name]
		n.mu.Unlock()
		child.Walk(visitor)
	}
}
