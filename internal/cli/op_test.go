package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/critterkeep/internal/domain"
	"github.com/roach88/critterkeep/internal/engine"
	"github.com/roach88/critterkeep/internal/store"
)

const epoch = "2024-01-01T00:00:00Z"

func createPet(t *testing.T, db, caller, name, typ string) {
	t.Helper()
	args, err := json.Marshal(map[string]string{"name": name, "type": typ})
	require.NoError(t, err)
	_, _, err = execute(t, "op", "createPet", "--db", db, "--caller", caller, "--at", epoch, "--args", string(args))
	require.NoError(t, err)
}

func TestOp_CreatePetJSON(t *testing.T) {
	db := tempDB(t)
	out, _, err := execute(t, "op", "createPet", "--db", db, "--format", "json",
		"--caller", "alice", "--at", epoch, "--args", `{"name":"Ember","type":"fire"}`)
	require.NoError(t, err)

	resp, data := decode(t, out)
	assert.Equal(t, "ok", resp.Status)

	var stats engine.PetStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, "Ember", stats.Pet.Name)
	assert.Equal(t, domain.TypeFire, stats.Pet.Type)
	assert.Equal(t, 1, stats.Pet.Level)
}

func TestOp_TextOutputIsYAML(t *testing.T) {
	db := tempDB(t)
	out, _, err := execute(t, "op", "createPet", "--db", db,
		"--caller", "alice", "--at", epoch, "--args", `{"name":"Ember","type":"fire"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "pet:\n")
	assert.Contains(t, out, "  name: Ember\n")
}

func TestOp_Rejection(t *testing.T) {
	db := tempDB(t)
	out, _, err := execute(t, "op", "playWithPet", "--db", db, "--format", "json",
		"--caller", "alice", "--at", epoch)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, domain.ErrNoPet)

	resp, _ := decode(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_PET", resp.Error.Code)
}

func TestOp_RejectionTextVerbose(t *testing.T) {
	db := tempDB(t)
	createPet(t, db, "alice", "Ember", "fire")

	out, _, err := execute(t, "op", "createPet", "--db", db, "-v",
		"--caller", "alice", "--at", epoch, "--args", `{"name":"Blaze","type":"water"}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [PET_EXISTS]")
	assert.Contains(t, out, "  name: Ember")
}

func TestOp_CommandErrors(t *testing.T) {
	db := tempDB(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown op", []string{"op", "petDog", "--caller", "alice"}, `unknown operation "petDog"`},
		{"bad json", []string{"op", "feedPet", "--caller", "alice", "--args", "{nope"}, "invalid --args JSON"},
		{"bad time", []string{"op", "playWithPet", "--caller", "alice", "--at", "yesterday"}, "invalid --at time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append(tt.args, "--db", db)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOp_MissingCaller(t *testing.T) {
	_, _, err := execute(t, "op", "playWithPet", "--db", tempDB(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"caller" not set`)
}

func TestOp_BadArgumentsAreRejections(t *testing.T) {
	db := tempDB(t)
	_, _, err := execute(t, "op", "createPet", "--db", db,
		"--caller", "alice", "--at", epoch, "--args", `{"name":"Ember","type":"plasma"}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOp_SeedPersistsWithDatabase(t *testing.T) {
	db := tempDB(t)
	_, _, err := execute(t, "op", "createPet", "--db", db, "--seed", "42",
		"--caller", "alice", "--at", epoch, "--args", `{"name":"Ember","type":"fire"}`)
	require.NoError(t, err)

	_, _, err = execute(t, "op", "playWithPet", "--db", db, "--seed", "43",
		"--caller", "alice", "--at", "2024-01-01T00:01:00Z")
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	seed, err := engine.SeedFrom(t.Context(), st, func() (int64, error) { return 0, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(42), seed)
}

func TestOp_UnwritableDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, _, err := execute(t, "op", "playWithPet", "--db", filepath.Join(dir, "x", "game.db"),
		"--caller", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}
