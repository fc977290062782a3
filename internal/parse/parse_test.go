package parse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int64
		expectErr bool
	}{
		{name: "Plain number", raw: "42", expected: 42},
		{name: "Surrounding spaces", raw: " 7 ", expected: 7},
		{name: "Zero", raw: "0", expectErr: true},
		{name: "Negative", raw: "-3", expectErr: true},
		{name: "Word", raw: "report", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Overflow", raw: "99999999999999999999", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ID(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestLooseID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int64
		ok        bool
		expectErr bool
	}{
		{name: "Number", raw: `3`, expected: 3, ok: true},
		{name: "Numeric string", raw: `"12"`, expected: 12, ok: true},
		{name: "Absent", raw: ``},
		{name: "Null", raw: `null`},
		{name: "Empty string", raw: `""`},
		{name: "Blank string", raw: `"  "`},
		{name: "Text", raw: `"laptop"`, expectErr: true},
		{name: "Float", raw: `1.5`, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok, err := LooseID(json.RawMessage(tc.raw))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestDate(t *testing.T) {
	d, err := Date("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = Date("29/02/2024")
	assert.Error(t, err)
	_, err = Date("2023-02-29")
	assert.Error(t, err)
}
