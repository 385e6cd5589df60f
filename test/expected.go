// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package test collects small assertion helpers shared by the house test
// suites. It exists so that core packages (cpu, memory) can write terse,
// table-driven tests without pulling in an assertion framework for the
// lowest layers of the emulator.
package test

import (
	"reflect"
	"testing"
)

// ExpectEquality fails the test if got and want are not deeply equal.
func ExpectEquality(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected value: got %v, want %v", got, want)
	}
}

// ExpectSuccess fails the test unless v is a true bool or a nil error.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("expected success, got false")
		}
	case error:
		if v != nil {
			t.Errorf("expected success, got error: %v", v)
		}
	case nil:
		// a nil error, typed as interface{}, is success
	default:
		t.Errorf("ExpectSuccess: unsupported type %T", v)
	}
}

// ExpectFailure fails the test unless v is a false bool or a non-nil error.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("expected failure, got true")
		}
	case error:
		if v == nil {
			t.Errorf("expected failure, got nil error")
		}
	case nil:
		t.Errorf("expected failure, got nil")
	default:
		t.Errorf("ExpectFailure: unsupported type %T", v)
	}
}
