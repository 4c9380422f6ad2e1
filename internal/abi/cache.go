package abi

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// IoError is the §7 CompilerError::IoError variant: ABI persistence failed
// for the given reason. Callers that report diagnostics rather than plain
// Go errors wrap this under diag.CompilerIoError.
type IoError struct {
	Message string
}

func (e *IoError) Error() string { return e.Message }

// abiSchemaVersion is bumped whenever AbiModule's on-disk shape changes
// incompatibly (§6: "the on-disk representation is a versioned,
// implementation-defined byte layout").
const abiSchemaVersion uint16 = 1

// diskEnvelope wraps an AbiModule with the schema version it was written
// under, mirroring the teacher's DiskPayload.Schema field.
type diskEnvelope struct {
	Schema uint16
	Module AbiModule
}

// Save writes abi to path as a msgpack-encoded payload, via a temp file in
// the same directory plus an atomic rename so a concurrent reader never
// observes a partial write (§6, grounded on the teacher's disk-cache
// Put/atomic-rename pattern).
func Save(abi *AbiModule, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioError("create ABI output directory", err)
	}

	f, err := os.CreateTemp(dir, "abi-*.mp.tmp")
	if err != nil {
		return ioError("create temporary ABI file", err)
	}
	tmpPath := f.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(diskEnvelope{Schema: abiSchemaVersion, Module: *abi}); err != nil {
		_ = f.Close()
		return ioError("encode ABI module", err)
	}
	if err := f.Close(); err != nil {
		return ioError("close ABI output file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return ioError("publish ABI output file", err)
	}
	return nil
}

// Load reads and decodes the AbiModule written by Save. It returns an
// *IoError if the file is missing, unreadable, or carries a schema version
// this build doesn't understand.
func Load(path string) (*AbiModule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open ABI file "+path, err)
	}
	defer func() { _ = f.Close() }()

	var env diskEnvelope
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&env); err != nil {
		return nil, ioError("decode ABI file "+path, err)
	}
	if env.Schema != abiSchemaVersion {
		return nil, ioError("ABI file "+path+" has an unsupported schema version", nil)
	}
	return &env.Module, nil
}

// ioError builds a §7 CompilerError::IoError for an ABI persistence
// failure.
func ioError(action string, cause error) *IoError {
	msg := action
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", action, cause.Error())
	}
	return &IoError{Message: msg}
}
