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

package reporter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/lexcompile/reporter"
)

func TestPos(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<input>", reporter.Pos{}.String())
	assert.Equal(t, "a.yaml", reporter.Pos{Filename: "a.yaml"}.String())
	assert.Equal(t, "<input>:3:4", reporter.Pos{Line: 3, Col: 4}.String())
	assert.Equal(t, "a.yaml:3:4", reporter.Pos{Filename: "a.yaml", Line: 3, Col: 4}.String())
}

func TestHandlerAbortsOnFirstError(t *testing.T) {
	t.Parallel()

	h := reporter.NewHandler(nil)
	pos := reporter.Pos{Filename: "a.yaml", Line: 1, Col: 2}
	err := h.HandleErrorf(pos, "bad %s", "thing")
	require.Error(t, err)
	assert.Equal(t, "a.yaml:1:2: bad thing", err.Error())

	var ewp reporter.ErrorWithPos
	require.ErrorAs(t, err, &ewp)
	assert.Equal(t, pos, ewp.GetPosition())
	assert.Equal(t, "bad thing", ewp.Unwrap().Error())

	// Later errors return the first.
	assert.Equal(t, err, h.HandleErrorf(reporter.Pos{}, "other"))
	assert.Equal(t, err, h.Error())
}

func TestHandlerCollects(t *testing.T) {
	t.Parallel()

	var errs, warnings []string
	h := reporter.NewHandler(reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			errs = append(errs, err.Error())
			return nil
		},
		func(err reporter.ErrorWithPos) {
			warnings = append(warnings, err.Error())
		},
	))
	require.NoError(t, h.Error())

	h.HandleWarningf(reporter.Pos{Line: 1, Col: 1}, "hmm")
	require.NoError(t, h.Error())

	require.NoError(t, h.HandleErrorf(reporter.Pos{Line: 2, Col: 1}, "one"))
	require.NoError(t, h.HandleError(reporter.Error(reporter.Pos{Line: 3, Col: 1}, errors.New("two"))))
	assert.Equal(t, []string{"<input>:2:1: one", "<input>:3:1: two"}, errs)
	assert.Equal(t, []string{"<input>:1:1: hmm"}, warnings)
	require.ErrorIs(t, h.Error(), reporter.ErrInvalidSpec)
	assert.NoError(t, h.ReporterError())

	// Errors without positions always abort.
	errStop := errors.New("stop")
	assert.Equal(t, errStop, h.HandleError(errStop))
	assert.Equal(t, errStop, h.Error())
}
