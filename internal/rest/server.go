/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package rest exposes the asset client over HTTP. Request validation
// happens before any ledger call; validation failures are reported as 400
// while upstream failures map to 502, or 504 when a call deadline expired.
package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logging "github.com/op/go-logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyperledger/fabric-asset-gateway/pkg/asset"
	"github.com/hyperledger/fabric-asset-gateway/pkg/gateway"
	"github.com/hyperledger/fabric-asset-gateway/pkg/metrics"
)

var logger = logging.MustGetLogger("assetgw/rest")

// Service is the ledger surface the HTTP handlers invoke.
type Service interface {
	InitLedger() error
	CreateAsset(id, name, enterTime, leaveTime string) error
	UpdateAsset(id string, name, enterTime, leaveTime *string) error
	ReadAsset(id string) (*asset.Asset, error)
	GetAllAssets() ([]asset.Asset, error)
	TransferAsset(id, newOwner string) (string, gateway.Commit, error)
}

// Server routes HTTP requests to the asset service.
type Server struct {
	service Service
	metrics *metrics.Metrics
	router  chi.Router
}

// NewServer builds the HTTP facade. The gatherer backs the /metrics
// endpoint and is normally the same registry the metrics were created with.
func NewServer(service Service, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{service: service, metrics: m}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleInitLedger)
	r.Post("/create", s.handleCreate)
	r.Post("/update", s.handleUpdate)
	r.Get("/readAll", s.handleReadAll)
	r.Get("/read", s.handleRead)
	r.Post("/transfer", s.handleTransfer)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleInitLedger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := s.service.InitLedger()
	s.recordSubmit("InitLedger", start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeText(w, http.StatusOK, "InitLedger success")
}

type createRequest struct {
	User    string `json:"user"`
	InTime  string `json:"inTime"`
	OutTime string `json:"outTime"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if req.User == "" || req.InTime == "" || req.OutTime == "" {
		writeValidationError(w, "user, inTime and outTime are required")
		return
	}

	id := fmt.Sprintf("asset_%d", time.Now().UnixMilli())

	start := time.Now()
	err := s.service.CreateAsset(id, req.User, req.InTime, req.OutTime)
	s.recordSubmit("CreateAsset", start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

type updateRequest struct {
	ID      string  `json:"id"`
	User    *string `json:"user"`
	InTime  *string `json:"inTime"`
	OutTime *string `json:"outTime"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if req.ID == "" {
		writeValidationError(w, "id is required")
		return
	}

	start := time.Now()
	err := s.service.UpdateAsset(req.ID, req.User, req.InTime, req.OutTime)
	s.recordSubmit("UpdateAsset", start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeText(w, http.StatusOK, "UpdateAsset success")
}

func (s *Server) handleReadAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	records, err := s.service.GetAllAssets()
	s.recordEvaluate("GetAllAssets", start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeValidationError(w, "id is required")
		return
	}

	start := time.Now()
	record, err := s.service.ReadAsset(id)
	s.recordEvaluate("ReadAsset", start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

type transferRequest struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, err.Error())
		return
	}
	if req.ID == "" || req.Owner == "" {
		writeValidationError(w, "id and owner are required")
		return
	}

	start := time.Now()
	oldOwner, commit, err := s.service.TransferAsset(req.ID, req.Owner)
	s.recordSubmit("TransferAsset", start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	// Respond as soon as ordering has the transaction; the commit outcome
	// is resolved in the background.
	go s.awaitCommit(commit)

	writeJSON(w, http.StatusOK, map[string]string{
		"txId":     commit.TransactionID(),
		"oldOwner": oldOwner,
	})
}

func (s *Server) awaitCommit(commit gateway.Commit) {
	commitStatus, err := commit.Status()
	if err != nil {
		logger.Errorf("Failed to obtain commit status of transaction [%s]: %s", commit.TransactionID(), err)
		s.metrics.CommitFailures.With("function", "TransferAsset").Add(1)
		return
	}
	if !commitStatus.Successful {
		logger.Warningf("Transaction [%s] failed to commit with status [%s]", commitStatus.TransactionID, commitStatus.Code)
		s.metrics.CommitFailures.With("function", "TransferAsset").Add(1)
		return
	}

	logger.Infof("Transaction [%s] committed in block %d", commitStatus.TransactionID, commitStatus.BlockNumber)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) recordEvaluate(function string, start time.Time, err error) {
	s.metrics.TransactionsEvaluated.With("function", function, "outcome", outcome(err)).Add(1)
	s.metrics.CallDuration.With("function", function).Observe(time.Since(start).Seconds())
}

func (s *Server) recordSubmit(function string, start time.Time, err error) {
	s.metrics.TransactionsSubmitted.With("function", function, "outcome", outcome(err)).Add(1)
	s.metrics.CallDuration.With("function", function).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeFailure
	}
	return metrics.OutcomeSuccess
}

func decodeBody(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %s", err)
	}
	return nil
}
