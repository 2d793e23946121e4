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

package table

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the binary encoding, which is the protobuf wire format of
// these messages:
//
//	message Table {
//	  uint32 initial = 1;
//	  repeated string tokens = 2;
//	  string end = 3;
//	  string error = 4;
//	  repeated State states = 5;
//	}
//	message State {
//	  string token = 1;
//	  bool ignore = 2;
//	  bool accepting = 3;
//	  repeated Transition transitions = 4;
//	}
//	message Transition {
//	  uint32 start = 1;
//	  uint32 end = 2;
//	  uint32 dest = 3;
//	}
const (
	tableInitial protowire.Number = 1
	tableTokens  protowire.Number = 2
	tableEnd     protowire.Number = 3
	tableError   protowire.Number = 4
	tableStates  protowire.Number = 5

	stateToken       protowire.Number = 1
	stateIgnore      protowire.Number = 2
	stateAccepting   protowire.Number = 3
	stateTransitions protowire.Number = 4

	transitionStart protowire.Number = 1
	transitionEnd   protowire.Number = 2
	transitionDest  protowire.Number = 3
)

// MarshalBinary implements [encoding.BinaryMarshaler].
//
// What each transition's destination accepts is not encoded, since it is
// recovered from the destination state.
func (t *Table) MarshalBinary() ([]byte, error) {
	var b []byte
	if t.Initial != 0 {
		b = protowire.AppendTag(b, tableInitial, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(t.Initial))
	}
	for _, name := range t.Tokens {
		b = protowire.AppendTag(b, tableTokens, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}
	b = appendString(b, tableEnd, t.End)
	b = appendString(b, tableError, t.Error)

	var state, transition []byte
	for _, s := range t.States {
		state = appendString(state[:0], stateToken, s.Token)
		state = appendBool(state, stateIgnore, s.Ignore)
		state = appendBool(state, stateAccepting, s.Accepting)
		for _, tr := range s.Transitions {
			transition = appendUint(transition[:0], transitionStart, tr.Start)
			transition = appendUint(transition, transitionEnd, tr.End)
			transition = appendUint(transition, transitionDest, tr.Dest)

			state = protowire.AppendTag(state, stateTransitions, protowire.BytesType)
			state = protowire.AppendBytes(state, transition)
		}

		b = protowire.AppendTag(b, tableStates, protowire.BytesType)
		b = protowire.AppendBytes(b, state)
	}
	return b, nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendUint[T rune | int](b []byte, num protowire.Number, v T) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler]. Unknown fields
// are skipped. The decoded table is validated.
func (t *Table) UnmarshalBinary(data []byte) error {
	*t = Table{}
	err := consumeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == tableInitial && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n >= 0 {
				t.Initial, n = toInt(v, n)
			}
			return n, nil
		case num == tableTokens && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			t.Tokens = append(t.Tokens, v)
			return n, nil
		case num == tableEnd && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			t.End = v
			return n, nil
		case num == tableError && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			t.Error = v
			return n, nil
		case num == tableStates && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			var s State
			if err := s.unmarshal(v); err != nil {
				return 0, err
			}
			t.States = append(t.States, s)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return err
	}

	t.fill()
	return t.Validate()
}

func (s *State) unmarshal(data []byte) error {
	return consumeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == stateToken && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			s.Token = v
			return n, nil
		case num == stateIgnore && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			s.Ignore = protowire.DecodeBool(v)
			return n, nil
		case num == stateAccepting && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			s.Accepting = protowire.DecodeBool(v)
			return n, nil
		case num == stateTransitions && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			var tr Transition
			if err := tr.unmarshal(v); err != nil {
				return 0, err
			}
			s.Transitions = append(s.Transitions, tr)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
}

func (tr *Transition) unmarshal(data []byte) error {
	return consumeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.VarintType {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return n, nil
		}
		var field int
		field, n = toInt(v, n)
		switch num {
		case transitionStart:
			tr.Start = rune(field)
		case transitionEnd:
			tr.End = rune(field)
		case transitionDest:
			tr.Dest = field
		}
		return n, nil
	})
}

// errCodeOverflow is the code [protowire.ParseError] reports as an
// overflowing varint.
const errCodeOverflow = -3

// toInt converts a decoded varint, reporting values too large for a rune or
// state index as an overflow.
func toInt(v uint64, n int) (int, int) {
	if v > math.MaxInt32 {
		return 0, errCodeOverflow
	}
	return int(v), n
}

// consumeMessage calls field for each field of a message. field returns the
// length of the field's value, or a negative protowire error code.
func consumeMessage(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	offset := 0
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: offset %d: %w", ErrInvalidTable, offset, protowire.ParseError(n))
		}
		b, offset = b[n:], offset+n

		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("%w: offset %d: field %d: %w", ErrInvalidTable, offset, num, protowire.ParseError(m))
		}
		b, offset = b[m:], offset+m
	}
	return nil
}
