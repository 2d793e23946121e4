// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package automata

import (
	"errors"
	"fmt"
)

// ErrConflictingTransition is wrapped by the error returned when adding a
// transition to a DFA would make it nondeterministic.
var ErrConflictingTransition = errors.New("conflicting transition")

// ConflictError is returned by DFA AddTransition methods when a state already
// has a transition to a different state on some of the same input.
type ConflictError[S, L any] struct {
	From     S
	On       L
	Existing S // Where the transition already present leads.
	Added    S // Where the rejected transition would have led.
}

// Error implements [error].
func (e *ConflictError[S, L]) Error() string {
	return fmt.Sprintf(
		"%v on %v: transition to %v conflicts with existing transition to %v",
		e.From, e.On, e.Added, e.Existing,
	)
}

// Unwrap returns [ErrConflictingTransition].
func (e *ConflictError[S, L]) Unwrap() error {
	return ErrConflictingTransition
}
