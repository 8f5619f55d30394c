package server

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betbot/propbet/internal/domain"
	"github.com/betbot/propbet/internal/ledger"
	_ "github.com/betbot/propbet/internal/metrics"
	"github.com/betbot/propbet/pkg/cache"
	"github.com/betbot/propbet/pkg/persistence"
)

// Server is the read-only status API: it reflects what the pipeline wrote
// to disk, nothing more. A short TTL cache keeps per-request disk reads
// off the hot path.
type Server struct {
	paths persistence.Paths
	book  *ledger.Book
	cache *cache.InMemoryCache[string, interface{}]
}

func New(dataDir string, book *ledger.Book) *Server {
	return &Server{
		paths: persistence.Paths{DataDir: dataDir},
		book:  book,
		cache: cache.NewInMemoryCache[string, interface{}](10 * time.Second),
	}
}

// Router builds the gin handler.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))

	api := r.Group("/api")
	api.GET("/ledger", s.handleLedger)
	api.GET("/orders/today", s.handleOrdersToday)
	api.GET("/bets/today", s.handleBetsToday)
	return r
}

func (s *Server) handleLedger(c *gin.Context) {
	if v, ok := s.cache.Get("ledger"); ok {
		c.JSON(http.StatusOK, v)
		return
	}
	book, err := s.book.Bootstrap()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.cache.Set("ledger", book, 0)
	c.JSON(http.StatusOK, book)
}

func (s *Server) handleOrdersToday(c *gin.Context) {
	s.serveDayFile(c, "orders", s.paths.OrdersFile(persistence.Today()), []*domain.Order{})
}

func (s *Server) handleBetsToday(c *gin.Context) {
	s.serveDayFile(c, "bets", s.paths.SizedBetsFile(persistence.Today()), []domain.SizedBet{})
}

// serveDayFile reads a per-day artifact; a missing file serves the empty
// value rather than a 404, matching the pipeline's empty-day semantics.
func (s *Server) serveDayFile(c *gin.Context, key, path string, empty interface{}) {
	if v, ok := s.cache.Get(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}
	v := empty
	err := persistence.ReadJSON(path, &v)
	if err != nil && err != persistence.ErrNotExists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.cache.Set(key, v, 0)
	c.JSON(http.StatusOK, v)
}
