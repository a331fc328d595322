package api

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/nilx/io-bds/internal/logger"
	"github.com/nilx/io-bds/pkg/bds"
)

type Server struct {
	store   *ArrayStore
	log     logger.Logger
	limits  bds.Limits
	maxJSON int64
	clock   func() time.Time
}

// DefaultMaxElements caps uploads when the configuration leaves
// Limits.MaxElements at zero. The server never runs uncapped.
const DefaultMaxElements = 1 << 26

// DefaultMaxJSONBytes caps JSON upload bodies.
const DefaultMaxJSONBytes = 256 << 20

type ServerConfig struct {
	Limits       bds.Limits
	MaxJSONBytes int64
	Logger       logger.Logger
}

func NewServer(store *ArrayStore, cfg ServerConfig) *Server {
	if store == nil {
		store = NewArrayStore()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	limits := cfg.Limits
	if limits.MaxElements == 0 {
		limits.MaxElements = DefaultMaxElements
	}
	maxJSON := cfg.MaxJSONBytes
	if maxJSON <= 0 {
		maxJSON = DefaultMaxJSONBytes
	}
	return &Server{
		store:   store,
		log:     log,
		limits:  limits,
		maxJSON: maxJSON,
		clock:   time.Now,
	}
}

// streamBodyLimit is the size of the largest stream the limits admit.
func streamBodyLimit(l bds.Limits) int64 {
	const frame = int64(bds.FrameLen)
	const most = uint64((math.MaxInt64 - frame) / bds.SampleSize)
	if l.MaxElements > most {
		return math.MaxInt64
	}
	return frame + int64(l.MaxElements)*bds.SampleSize
}

// MaxBodyBytes is the largest request body any route accepts. It sizes
// the server-wide body limit middleware.
func (s *Server) MaxBodyBytes() int64 {
	return max(streamBodyLimit(s.limits), s.maxJSON)
}

// limitBody caps the request body at n bytes.
func limitBody(c *echo.Context, n int64) io.Reader {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, n)
	return req.Body
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/arrays", s.handleUpload)
	e.POST("/v1/arrays/json", s.handleUploadJSON)
	e.GET("/v1/arrays", s.handleList)
	e.GET("/v1/arrays/:id", s.handleGet)
	e.GET("/v1/arrays/:id/data", s.handleData)
	e.DELETE("/v1/arrays/:id", s.handleDelete)
}

// handleUpload decodes a raw stream body.
func (s *Server) handleUpload(c *echo.Context) error {
	body := limitBody(c, streamBodyLimit(s.limits))
	a, err := bds.ReadWithLimits(body, s.limits)
	if err != nil {
		s.log.Debug("upload rejected", "error", err)
		return writeCodecError(c, err)
	}
	info := s.store.Save(a, "bds", nil, s.clock())
	s.log.Info("array stored", "id", info.ID, "dims", a.Dims.String())
	return c.JSON(http.StatusCreated, info)
}

func (s *Server) handleUploadJSON(c *echo.Context) error {
	req, err := decodeJSON[CreateArrayRequest](limitBody(c, s.maxJSON))
	if err != nil {
		return writeCodecError(c, err)
	}
	d := bds.Dims{NX: req.NX, NY: req.NY, NC: req.NC}
	if _, err := bds.EncodeHeader(d); err != nil {
		return writeCodecError(c, err)
	}
	n, err := d.Len()
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if err := s.limits.Check(n); err != nil {
		return writeCodecError(c, err)
	}
	if len(req.Samples) != n {
		return writeBadRequest(c, fmt.Sprintf("samples: got %d, dims %s need %d", len(req.Samples), d, n))
	}
	data := req.Samples
	if data == nil {
		data = []float32{}
	}
	a := &bds.Array{Dims: d, Data: data}
	info := s.store.Save(a, "json", req.Labels, s.clock())
	s.log.Info("array stored", "id", info.ID, "dims", d.String())
	return c.JSON(http.StatusCreated, info)
}

func (s *Server) handleList(c *echo.Context) error {
	return c.JSON(http.StatusOK, ArrayList{
		Object: "list",
		Data:   s.store.List(),
	})
}

func (s *Server) handleGet(c *echo.Context) error {
	id := c.Param("id")
	rec, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("array %q not found", id))
	}
	return c.JSON(http.StatusOK, rec.Info)
}

// handleData streams a stored array back in stream form.
func (s *Server) handleData(c *echo.Context) error {
	id := c.Param("id")
	rec, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("array %q not found", id))
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, MIMEBDS)
	res.Header().Set(echo.HeaderContentLength, strconv.Itoa(rec.Info.Bytes))
	res.WriteHeader(http.StatusOK)
	if err := bds.WriteArray(res, rec.Array); err != nil {
		// Headers are already sent; the client sees a short body.
		s.log.Warn("stream write failed", "id", id, "error", err)
	}
	return nil
}

func (s *Server) handleDelete(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, fmt.Sprintf("array %q not found", id))
	}
	s.log.Info("array deleted", "id", id)
	return c.JSON(http.StatusOK, DeleteArrayResp{
		ID:      id,
		Object:  "array.deleted",
		Deleted: true,
	})
}
