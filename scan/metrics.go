package scan

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/inscription-c/ccoin/colordata"
	"github.com/inscription-c/ccoin/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsServer serves the scan metrics while a scan follows the chain.
type metricsServer struct {
	engine *gin.Engine
	srv    *http.Server
}

func newMetricsServer(addr string, enablePProf bool) *metricsServer {
	gin.SetMode(gin.ReleaseMode)
	registry := prometheus.NewRegistry()
	registry.MustRegister(colordata.Collectors()...)

	engine := gin.New()
	engine.Use(gin.Recovery())
	if enablePProf {
		pprof.Register(engine)
	}
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	return &metricsServer{
		engine: engine,
		srv:    &http.Server{Addr: addr, Handler: engine},
	}
}

func (m *metricsServer) Run() {
	go func() {
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Log.Errorf("metrics server: %v", err)
		}
	}()
}

func (m *metricsServer) Shutdown() {
	if err := m.srv.Shutdown(context.Background()); err != nil {
		log.Log.Errorf("metrics server shutdown: %v", err)
	}
}
