package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/soundview/internal/player"
)

// handleListPlayers returns a summary of every known player.
func (s *Server) handleListPlayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.adapter.AllPlayers())
}

// handleListGroups returns the current group partition.
func (s *Server) handleListGroups(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.adapter.AllGroups())
}

// handlePlay starts playback on the device. Unknown devices are a no-op.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := s.commander.Play(r.Context(), uuid); err != nil {
		s.commandError(w, "play", uuid, err)
		return
	}
	writeNoContent(w)
}

// handlePause pauses playback on the device. Unknown devices are a no-op.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := s.commander.Pause(r.Context(), uuid); err != nil {
		s.commandError(w, "pause", uuid, err)
		return
	}
	writeNoContent(w)
}

// handleGetVolume returns the device's current volume.
func (s *Server) handleGetVolume(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	volume, err := s.commander.GetVolume(uuid)
	if err != nil {
		s.commandError(w, "get volume", uuid, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"volume": volume})
}

// handleSetVolume applies the requested volume, clamped to [0, 100].
func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	volume, err := strconv.Atoi(chi.URLParam(r, "vol"))
	if err != nil {
		writeBadRequest(w)
		return
	}
	if err := s.commander.SetVolume(r.Context(), uuid, volume); err != nil {
		s.commandError(w, "set volume", uuid, err)
		return
	}
	writeNoContent(w)
}

// handleJoin makes the device join the group containing the target device.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	target := chi.URLParam(r, "to")
	if err := s.commander.Join(r.Context(), uuid, target); err != nil {
		s.commandError(w, "join", uuid, err)
		return
	}
	writeNoContent(w)
}

// handleUnjoin makes the device leave its group and stand alone.
func (s *Server) handleUnjoin(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := s.commander.Unjoin(r.Context(), uuid); err != nil {
		s.commandError(w, "unjoin", uuid, err)
		return
	}
	writeNoContent(w)
}

// handleGetState returns the full snapshot for one device.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	state, err := s.adapter.FullState(uuid)
	if err != nil {
		if errors.Is(err, player.ErrDeviceNotFound) {
			writeNotFound(w)
			return
		}
		s.logger.Error("full state read failed", "uuid", uuid, "error", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// commandError translates command failures: absent devices are 404,
// anything else is an underlying protocol failure and surfaces as 500.
func (s *Server) commandError(w http.ResponseWriter, op, uuid string, err error) {
	if errors.Is(err, player.ErrDeviceNotFound) {
		writeNotFound(w)
		return
	}
	s.logger.Error("command failed", "op", op, "uuid", uuid, "error", err)
	writeInternalError(w)
}
