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

// Counter allocates fresh integer states, starting from zero.
//
// A zero Counter is ready to use. Pass its Next method wherever a state
// allocator is expected.
type Counter struct {
	next int
}

// Next returns a state that this counter has not returned before.
func (c *Counter) Next() int {
	n := c.next
	c.next++
	return n
}

// Len returns how many states this counter has allocated.
func (c *Counter) Len() int {
	return c.next
}
