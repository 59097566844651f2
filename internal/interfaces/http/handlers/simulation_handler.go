package handlers

import (
	"net/http"
	"time"

	"github.com/turtacn/qsim/internal/application/simulation"
	"github.com/turtacn/qsim/internal/domain/molecule"
	domainSim "github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
)

// MsgSimulationFailed is the error text of a 500 from /simulate.
const MsgSimulationFailed = "Simulation failed"

// SimulationHandler serves POST /simulate.
type SimulationHandler struct {
	svc         simulation.Service
	logger      logging.Logger
	maxBodySize int64
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(svc simulation.Service, logger logging.Logger, maxBodySize int64) *SimulationHandler {
	return &SimulationHandler{svc: svc, logger: logger, maxBodySize: maxBodySize}
}

// SimulateResponse is the result payload with its provenance.  Result fields
// are inlined.
type SimulateResponse struct {
	Status   string     `json:"status"`
	Source   string     `json:"source"`
	CachedAt *time.Time `json:"cached_at,omitempty"`
	*domainSim.Result
}

// Simulate handles POST /simulate.
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.maxBodySize)
	if err != nil {
		writeFailure(w, StatusError, err, MsgSimulationFailed)
		return
	}
	m, err := molecule.DecodeMolecule(body)
	if err != nil {
		writeFailure(w, StatusError, err, MsgSimulationFailed)
		return
	}

	out, err := h.svc.Simulate(r.Context(), m)
	if err != nil {
		logFailure(h.logger, "Simulate request failed", err)
		writeFailure(w, StatusError, err, MsgSimulationFailed)
		return
	}

	writeJSON(w, http.StatusOK, SimulateResponse{
		Status:   StatusSuccess,
		Source:   out.Source,
		CachedAt: out.CachedAt,
		Result:   out.Result,
	})
}

//Personal.AI order the ending
