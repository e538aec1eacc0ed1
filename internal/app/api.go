package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vk/satcolor/internal/coloring"
	"github.com/vk/satcolor/internal/config"
	"github.com/vk/satcolor/internal/ctxlog"
	"github.com/vk/satcolor/internal/notify"
)

const maxRequestBytes = 8 << 20

type apiNode struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
}

// colorRequest is the body of POST /v1/color. Solver settings are not
// accepted from clients; the server's own are used.
type colorRequest struct {
	Budget     int         `json:"budget"`
	KeepColors bool        `json:"keep_colors"`
	Nodes      []apiNode   `json:"nodes"`
	Edges      [][2]string `json:"edges"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (req *colorRequest) document() *config.Document {
	doc := &config.Document{Budget: req.Budget, Source: "http"}
	for _, n := range req.Nodes {
		doc.Nodes = append(doc.Nodes, &config.Node{Name: n.Name, Label: n.Label, Color: n.Color})
	}
	for _, e := range req.Edges {
		doc.Edges = append(doc.Edges, &config.Edge{From: e[0], To: e[1]})
	}
	return doc
}

// handleColor colors the posted graph. Unsatisfiable budgets are answered
// with 200 and satisfiable=false; failures map to 4xx/5xx by kind.
func (a *App) handleColor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.FromContext(ctx)

	var req colorRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error(), Kind: "invalid_input"})
			return
		}
		writeError(w, fmt.Errorf("%w: %v", config.ErrInvalidDocument, err))
		return
	}

	doc := req.document()
	b, err := config.Bind(ctx, doc)
	if err != nil {
		writeError(w, err)
		return
	}
	budget := req.Budget
	if budget == 0 {
		budget = coloring.DefaultBudget
	}
	b.Graph.ReconcilePalette(budget)

	colorer := coloring.New(a.apiGateway, coloring.WithObserver(a.metrics))
	out, err := colorer.Color(ctx, b.Graph, coloring.Request{Budget: budget, KeepColors: req.KeepColors})
	a.publish(ctx, doc.Source, out, err, b.Name)
	if err != nil {
		logger.Debug("Coloring request failed.", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notify.NewEvent(doc.Source, out, nil, b.Name))
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httpStatus(err), errorResponse{Error: err.Error(), Kind: failureKind(err)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
