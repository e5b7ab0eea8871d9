package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTaskShaped(t *testing.T) {
	tests := []struct {
		name       string
		properties map[string]string
		want       bool
	}{
		{
			name: "classic task list with status",
			properties: map[string]string{
				"Name":   "title",
				"Status": "status",
				"Due":    "date",
			},
			want: true,
		},
		{
			name: "task list with select instead of status",
			properties: map[string]string{
				"Task":  "title",
				"State": "select",
			},
			want: true,
		},
		{
			name: "notes database without status",
			properties: map[string]string{
				"Name":    "title",
				"Content": "rich_text",
			},
			want: false,
		},
		{
			name: "status without title",
			properties: map[string]string{
				"Status": "status",
				"Owner":  "people",
			},
			want: false,
		},
		{
			name:       "empty schema",
			properties: map[string]string{},
			want:       false,
		},
		{
			name: "property names do not matter, types do",
			properties: map[string]string{
				"Anything": "title",
				"Whatever": "select",
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTaskShaped(tt.properties))
		})
	}
}
