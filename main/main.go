package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rawbytedev/envelope"
	"github.com/rawbytedev/envelope/internal/config"
	"github.com/rawbytedev/envelope/pkg/dispatch"
	"github.com/rawbytedev/envelope/pkg/logger"
)

const (
	cmdThree uint64 = iota + 1
	cmdPing
	cmdText
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config")
	count := flag.Int("n", 10000, "envelopes per command")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.L().Fatal("load config", zap.Error(err))
	}
	logger.SetLevel(cfg.LogLevel)
	log := logger.L()
	defer log.Sync()

	reg := prometheus.NewRegistry()
	metrics := dispatch.NewMetrics(reg)
	go func() {
		mux := http.DefaultServeMux
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Info("serving metrics and pprof", zap.String("addr", cfg.MetricsAddr))
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Error("http server", zap.Error(err))
		}
	}()

	r := dispatch.NewRouter()
	must(log, dispatch.Handle(r, cmdThree, func(_ context.Context, e *envelope.Envelope[envelope.ThreeByteBody]) error {
		log.Debug("three", zap.ByteString("body", e.Body[:]))
		return nil
	}))
	must(log, dispatch.Handle(r, cmdPing, func(_ context.Context, e *envelope.Envelope[envelope.Ping]) error {
		log.Debug("ping", zap.Uint64("seq", e.Body.Seq),
			zap.Duration("latency", time.Duration(time.Now().UnixNano()-e.Body.SentUnixNano)))
		return nil
	}))
	must(log, dispatch.Handle(r, cmdText, func(_ context.Context, e *envelope.Envelope[envelope.Text]) error {
		log.Debug("text", zap.Stringer("body", &e.Body))
		return nil
	}))

	d := dispatch.New(dispatch.Config{Workers: cfg.Dispatch.Workers}, r,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(metrics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	start := time.Now()
	for i := 0; i < *count; i++ {
		three := envelope.New[envelope.ThreeByteBody](cmdThree)
		three.Body[0] = byte('a' + i%26)

		ping := envelope.New[envelope.Ping](cmdPing)
		ping.Body.Seq = uint64(i)
		ping.Body.SentUnixNano = time.Now().UnixNano()

		text := envelope.New[envelope.Text](cmdText)
		text.Body.Set("hello from the producer")

		for _, h := range []*envelope.Header{three.Ref(), ping.Ref(), text.Ref()} {
			if err := d.Submit(dispatch.NewNode(h)); err != nil {
				log.Error("submit", zap.Error(err))
			}
		}
	}
	d.Close()
	if err := <-done; err != nil {
		log.Warn("dispatcher", zap.Error(err))
	}
	log.Info("done",
		zap.Int("envelopes", 3*(*count)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Uint64s("commands", r.Commands()),
	)

	// keep serving pprof/metrics until interrupted
	<-ctx.Done()
}

func must(log *zap.Logger, err error) {
	if err != nil {
		log.Fatal("register handler", zap.Error(err))
	}
}
