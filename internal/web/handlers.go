package web

import (
	"context"
	"net/http"
	"strings"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

type errorResponse struct {
	Error string `json:"error"`
}

// searchHandler forwards POST /api/direction/search to the backend.
// Backend failures are answered with an empty list; the page cannot tell
// them apart from "no pharmacies".
func (s *Server) searchHandler(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("direction_search")

	var req pharmacy.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: pharmacy.ErrEmptyAddress.Error()})
		return
	}

	results, err := s.backend.SearchByAddress(ctx.Request.Context(), address)
	if err != nil {
		logger.Warn("search pharmacies",
			zap.String("address", address),
			zap.Bool("transport", pharmacy.IsTransport(err)),
			zap.Bool("server", pharmacy.IsServer(err)),
			zap.Bool("decode", pharmacy.IsDecode(err)),
			zap.Error(err))
		ctx.JSON(http.StatusOK, []pharmacy.Record{})
		return
	}

	ctx.JSON(http.StatusOK, pharmacy.Records(results))
}

// resolveHandler forwards GET /api/direction/:encodedId and answers the
// map URL as plain text.
func (s *Server) resolveHandler(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("direction_resolve")

	id := ctx.Param("encodedId")
	if strings.TrimSpace(id) == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: pharmacy.ErrEmptyDirectionID.Error()})
		return
	}

	reqCtx := ctx.Request.Context()

	// the shared call outlives any single caller and is bounded by resolveTimeout
	ch := s.resolveGroup.DoChan(id, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), s.resolveTimeout)
		defer cancel()
		return s.backend.ResolveDirectionURL(callCtx, id)
	})
	s.resolveWaiting.Add(1)
	defer s.resolveWaiting.Add(-1)

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-reqCtx.Done():
		logger.Debug("client left before direction url resolved",
			zap.String("id", id),
			zap.Error(reqCtx.Err()))
		ctx.Abort()
		return
	}

	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		logger.Warn("resolve direction url",
			zap.String("id", id),
			zap.Bool("shared", shared),
			zap.Error(err))
		ctx.JSON(http.StatusBadGateway, errorResponse{Error: "failed to resolve direction url"})
		return
	}

	logger.Debug("resolved direction url",
		zap.String("id", id),
		zap.Bool("shared", shared))
	ctx.String(http.StatusOK, v.(string))
}
