// Package serialization is the top-level facade over the save codec: it
// wires a component.Set, a config.Config, and an internal/log.Logger into
// a registry.Codec and exposes the four calls an embedding game actually
// makes — SaveText, LoadText, SaveBinary, LoadBinary — the way
// cardinal.go wires World's subsystems together into a small top-level
// surface for the rest of the engine to call.
package serialization

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/labelle-toolkit/serialization/binary"
	"github.com/labelle-toolkit/serialization/component"
	"github.com/labelle-toolkit/serialization/config"
	"github.com/labelle-toolkit/serialization/internal/log"
	"github.com/labelle-toolkit/serialization/registry"
)

// Engine bundles everything a save/load cycle needs: the component set,
// resource bounds, and a logger.
type Engine struct {
	Set    component.Set
	Config config.Config
	Logger *log.Logger
}

// New returns an Engine with Default() resource bounds and a stderr logger.
func New(set component.Set) *Engine {
	return &Engine{Set: set, Config: config.Default(), Logger: log.New()}
}

// GameInfo carries the caller-supplied parts of a save's metadata; Version
// and Timestamp are filled in by SaveText/SaveBinary.
type GameInfo struct {
	LibVersion string
	GameName   string
}

func (e *Engine) metadata(version uint32, info GameInfo) registry.Metadata {
	return registry.Metadata{
		Version:    version,
		LibVersion: info.LibVersion,
		Timestamp:  time.Now().UnixNano(),
		GameName:   info.GameName,
	}
}

// SaveText serializes reg (restricted to e.Set) to the text format at the
// given schema version, pretty-printed when pretty is true and compact
// otherwise.
func (e *Engine) SaveText(reg registry.Registry, version uint32, info GameInfo, pretty bool) ([]byte, error) {
	codec := registry.New(reg, e.Set, e.Logger)
	return codec.EncodeText(registry.EncodeOptions{
		Meta:   e.metadata(version, info),
		Pretty: pretty,
	})
}

// LoadText deserializes blob into reg, gated by e.Config's version window
// and MaxFileBytes (a per-load read cap on the whole blob, checked before
// any parsing is attempted).
func (e *Engine) LoadText(reg registry.Registry, blob []byte, skipMissing bool) (registry.Metadata, error) {
	if e.Config.MaxFileBytes > 0 && int64(len(blob)) > e.Config.MaxFileBytes {
		return registry.Metadata{}, eris.Wrapf(registry.ErrFileTooLarge, "serialization: blob is %d bytes, limit is %d", len(blob), e.Config.MaxFileBytes)
	}
	codec := registry.New(reg, e.Set, e.Logger)
	return codec.DecodeText(blob, registry.DecodeOptions{
		MaxAcceptedVersion: uint32(e.Config.MaxAcceptedVersion),
		MinLoadableVersion: uint32(e.Config.MinLoadableVersion),
		SkipMissing:        skipMissing,
	})
}

// SaveBinary serializes reg (restricted to e.Set) to the binary format at
// the given schema version.
func (e *Engine) SaveBinary(reg registry.Registry, version uint32, info GameInfo) ([]byte, error) {
	codec := registry.New(reg, e.Set, e.Logger)
	return codec.EncodeBinary(registry.EncodeOptions{Meta: e.metadata(version, info)})
}

// LoadBinary deserializes blob into reg, gated by e.Config's version
// window and resource bounds, including MaxFileBytes on the raw blob.
func (e *Engine) LoadBinary(reg registry.Registry, blob []byte, skipMissing bool) (registry.Metadata, error) {
	if e.Config.MaxFileBytes > 0 && int64(len(blob)) > e.Config.MaxFileBytes {
		return registry.Metadata{}, eris.Wrapf(registry.ErrFileTooLarge, "serialization: blob is %d bytes, limit is %d", len(blob), e.Config.MaxFileBytes)
	}
	codec := registry.New(reg, e.Set, e.Logger)
	limits := binary.Limits{
		MaxStringBytes:   e.Config.MaxStringBytes,
		MaxArrayElements: e.Config.MaxArrayElements,
	}
	return codec.DecodeBinary(blob, limits, registry.DecodeOptions{
		MaxAcceptedVersion: uint32(e.Config.MaxAcceptedVersion),
		MinLoadableVersion: uint32(e.Config.MinLoadableVersion),
		SkipMissing:        skipMissing,
	})
}
