package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

func TestParseWatchLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    watchCommand
		wantErr string
	}{
		{name: "blank", line: "   ", want: watchCommand{kind: watchNone}},
		{name: "quit", line: "quit", want: watchCommand{kind: watchQuit}},
		{name: "exit uppercase", line: "EXIT", want: watchCommand{kind: watchQuit}},
		{name: "list", line: "list", want: watchCommand{kind: watchList}},
		{name: "dice", line: "dice 3d6+2", want: watchCommand{kind: watchDice, target: "3d6+2"}},
		{name: "dice with spaces", line: "dice 2d8 + 1", want: watchCommand{kind: watchDice, target: "2d8+1"}},
		{name: "dice without expression", line: "dice", wantErr: "dice needs an expression"},
		{
			name: "roll",
			line: "weather",
			want: watchCommand{kind: watchRoll, target: "weather", params: entities.Params{}},
		},
		{
			name: "roll with params",
			line: "encounters environment=forest partyLevel=3",
			want: watchCommand{
				kind:   watchRoll,
				target: "encounters",
				params: entities.Params{"environment": "forest", "partyLevel": "3"},
			},
		},
		{name: "bad param", line: "encounters forest", wantErr: "invalid param"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWatchLine(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
