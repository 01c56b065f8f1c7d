package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceLines(t *testing.T) {
	lines, err := TraceLines([]TraceEvent{
		{Step: 0, Op: "createPet", Caller: "alice", At: "0s", Code: CodeOK, Result: map[string]any{"ignored": true}},
		{Step: 1, Op: "playWithPet", Caller: "bob", At: "1m0s", Code: "NO_PET"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		`{"at":"0s","caller":"alice","code":"OK","op":"createPet","step":0}`+"\n"+
			`{"at":"1m0s","caller":"bob","code":"NO_PET","op":"playWithPet","step":1}`+"\n",
		string(lines))
}

func TestTraceLines_Empty(t *testing.T) {
	lines, err := TraceLines(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
