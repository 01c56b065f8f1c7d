// Package harness runs scripted game scenarios against a real engine.
//
// A scenario is a YAML file naming a seed and a list of steps. Each step is
// one mutating operation invoked as some caller at an offset from the
// scenario epoch, with an expected outcome: "OK" or a rejection code, plus
// an optional subset of the result to match. Assertions then check the
// trace of outcomes and the final state of accounts.
//
// Every run uses a fresh in-memory store, sequential request ids and a
// seeded random factory, so the same scenario always produces the same
// trace. Traces are compared against golden files under testdata/golden:
//
//	{"at":"0s","caller":"alice","code":"OK","op":"createPet","step":0}
//	{"at":"1m0s","caller":"bob","code":"NO_PET","op":"playWithPet","step":1}
//
// One canonical JSON object per step. Update goldens with
//
//	go test ./internal/harness/... -update
package harness
