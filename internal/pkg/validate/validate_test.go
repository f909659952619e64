package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type layoutBody struct {
	Layout string `validate:"required,layout"`
}

type submitBody struct {
	Type  string `validate:"required,oneof=website email twitter"`
	Value string `validate:"required"`
}

func TestStruct_Layout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		ok     bool
	}{
		{name: "default", layout: "calendar,recommendations,spreed,mail", ok: true},
		{name: "single", layout: "mail", ok: true},
		{name: "spaces_around_ids", layout: "mail, calendar", ok: true},
		{name: "empty", layout: "", ok: false},
		{name: "empty_segment", layout: "mail,,calendar", ok: false},
		{name: "trailing_comma", layout: "mail,", ok: false},
		{name: "bad_chars", layout: "mail,<script>", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(layoutBody{Layout: tt.layout})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStruct_MessageNamesFieldAndTag(t *testing.T) {
	err := Struct(submitBody{Type: "fax", Value: ""})

	assert.EqualError(t, err, "field 'Type' failed 'oneof'; field 'Value' failed 'required'")
}
