package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	customerrors "github.com/boatyardx/bitnami-helm-repo/pkg/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		want      Mode
		wantUsage bool
	}{
		{
			name: "no options defaults to all",
			opts: Options{},
			want: Mode{Kind: All},
		},
		{
			name: "explicit all",
			opts: Options{All: true},
			want: Mode{Kind: All},
		},
		{
			name: "latest with count",
			opts: Options{Latest: "5"},
			want: Mode{Kind: Latest, Count: 5},
		},
		{
			name: "latest zero is allowed",
			opts: Options{Latest: "0"},
			want: Mode{Kind: Latest, Count: 0},
		},
		{
			name:      "latest non-numeric",
			opts:      Options{Latest: "five"},
			wantUsage: true,
		},
		{
			name:      "latest negative",
			opts:      Options{Latest: "-1"},
			wantUsage: true,
		},
		{
			name: "specific chart and version",
			opts: Options{Chart: "wordpress", Version: "19.2.2"},
			want: Mode{Kind: Specific, Chart: "wordpress", Version: "19.2.2"},
		},
		{
			name:      "version without chart",
			opts:      Options{Version: "19.2.2"},
			wantUsage: true,
		},
		{
			name:      "chart without version",
			opts:      Options{Chart: "wordpress"},
			wantUsage: true,
		},
		{
			name:      "version without chart alongside all",
			opts:      Options{All: true, Version: "19.2.2"},
			wantUsage: true,
		},
		{
			name:      "all mixed with latest",
			opts:      Options{All: true, Latest: "3"},
			wantUsage: true,
		},
		{
			name:      "latest mixed with specific",
			opts:      Options{Latest: "3", Chart: "redis", Version: "1.0.0"},
			wantUsage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.opts)

			if tt.wantUsage {
				assert.Error(t, err)
				assert.True(t, customerrors.IsUsageError(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "all", All.String())
	assert.Equal(t, "latest", Latest.String())
	assert.Equal(t, "specific", Specific.String())
}
