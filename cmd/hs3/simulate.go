package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Setheum-Labs/HS3/pkg/config"
	"github.com/Setheum-Labs/HS3/pkg/crypto/hashing"
	"github.com/Setheum-Labs/HS3/pkg/crypto/signing"
	"github.com/Setheum-Labs/HS3/pkg/gomel"
	"github.com/Setheum-Labs/HS3/pkg/logging"
	"github.com/Setheum-Labs/HS3/pkg/queue"
	"github.com/Setheum-Labs/HS3/pkg/random/coin"
	"github.com/Setheum-Labs/HS3/pkg/rmc"
	"github.com/Setheum-Labs/HS3/pkg/run"
	"github.com/Setheum-Labs/HS3/pkg/terminator"
	"github.com/Setheum-Labs/HS3/pkg/tests"
	"github.com/Setheum-Labs/HS3/pkg/transactions"
)

type simulateOptions struct {
	configFile  string
	keysDir     string
	nodes       uint16
	maxRound    int
	delay       time.Duration
	duration    time.Duration
	txRate      int
	txPerUnit   int
	seed        string
	metricsAddr string
	certTimeout time.Duration
}

var simOpts simulateOptions

func init() {
	f := simulateCmd.Flags()
	f.StringVarP(&simOpts.configFile, "config", "c", "", "yaml file with the configuration shared by all processes")
	f.StringVarP(&simOpts.keysDir, "keys", "k", "", "directory with keys generated by the keys command, fresh keys are used if empty")
	f.Uint16VarP(&simOpts.nodes, "nodes", "n", 4, "number of processes, ignored when keys are given")
	f.IntVar(&simOpts.maxRound, "max-round", 20, "last round of units created by every process, 0 for no limit")
	f.DurationVar(&simOpts.delay, "delay", 50*time.Millisecond, "delay before creating a unit")
	f.DurationVar(&simOpts.duration, "duration", 10*time.Second, "how long to run before stopping all processes")
	f.IntVar(&simOpts.txRate, "tx-rate", 100, "transactions submitted to every process per second")
	f.IntVar(&simOpts.txPerUnit, "tx-per-unit", 1000, "maximal number of transactions in a single unit")
	f.StringVar(&simOpts.seed, "seed", "hs3", "seed of the common coin")
	f.StringVar(&simOpts.metricsAddr, "metrics", "", "address to serve /metrics at, disabled if empty")
	f.DurationVar(&simOpts.certTimeout, "cert-timeout", 5*time.Second, "how long a process waits for the multisignature of a batch")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a whole committee in a single process over an in-memory network",
	Long: "Runs every process of a committee, connected by reliable in-memory links. " +
		"Every ordered batch is certified with a multisignature gathered by all processes. " +
		"At the end the orders of all processes are compared.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := simulate(simOpts); err != nil {
			reportErrorf("Simulation failed: %v", err)
		}
	},
}

// submit feeds the pool with transactions at the given rate per second until exit is closed.
func submit(pool *transactions.Pool, pid uint16, rate int, exit <-chan struct{}) {
	if rate <= 0 {
		return
	}
	const tick = 10 * time.Millisecond
	perTick := rate / int(time.Second/tick)
	if perTick == 0 {
		perTick = 1
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	issuer := "process" + strconv.Itoa(int(pid))
	id := uint32(0)
	for {
		select {
		case <-exit:
			return
		case <-ticker.C:
			txs := make([]transactions.Tx, perTick)
			for i := range txs {
				txs[i] = transactions.Tx{ID: id, Issuer: issuer, Receiver: "sink", Amount: id % 1000}
				id++
			}
			pool.Add(txs...)
		}
	}
}

func loadConfig(opts simulateOptions) (config.Config, error) {
	conf := config.NewDefaultConfig()
	if opts.configFile != "" {
		f, err := os.Open(opts.configFile)
		if err != nil {
			return conf, err
		}
		defer f.Close()
		if err := config.NewYAMLConfigLoader().LoadConfig(f, &conf); err != nil {
			return conf, err
		}
	}
	conf.NProc = opts.nodes
	conf.CreateDelay = opts.delay
	conf.MaxRound = opts.maxRound
	return conf, nil
}

func keychains(opts simulateOptions) ([]gomel.Keychain, error) {
	var (
		pubs  []gomel.PublicKey
		privs []gomel.PrivateKey
	)
	if opts.keysDir != "" {
		committee, loaded, err := loadKeys(opts.keysDir)
		if err != nil {
			return nil, err
		}
		pubs, privs = committee.PublicKeys, loaded
	} else {
		committee := tests.NewCommittee(opts.nodes)
		pubs, privs = committee.PublicKeys, committee.PrivateKeys
	}
	result := make([]gomel.Keychain, len(pubs))
	for pid := range result {
		result[pid] = signing.NewKeychain(uint16(pid), privs[pid], pubs)
	}
	return result, nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Str("where", "serveMetrics").Msg(err.Error())
		}
	}()
	return srv
}

func simulate(opts simulateOptions) error {
	keys, err := keychains(opts)
	if err != nil {
		return err
	}
	opts.nodes = uint16(len(keys))
	conf, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := config.Valid(conf); err != nil {
		return err
	}
	if err := logging.InitLogger(conf.LogConfig()); err != nil {
		return err
	}
	hasher, err := hashing.ByName(conf.Hasher)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		srv := serveMetrics(opts.metricsAddr)
		defer srv.Shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	exit := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(exit)
	}()

	network := tests.NewNetwork(opts.nodes, hasher)
	network.Start()
	defer network.Stop()
	router := rmc.NewRouter(opts.nodes)
	metrics := rmc.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	rs := coin.New([]byte(opts.seed))
	ordered := make([][]gomel.Hash, opts.nodes)
	txCounts := make([]int, opts.nodes)

	for pid := uint16(0); pid < opts.nodes; pid++ {
		pid := pid
		nodeConf := conf
		nodeConf.Pid = pid
		nodeLog := log.Logger.With().Uint16(logging.PID, pid).Logger()
		batches := queue.New[[]gomel.Unit]()
		pool := transactions.NewPool(opts.txPerUnit)
		start := make(chan int)
		close(start)
		io := run.IO{
			Incoming:       network.Incoming(pid),
			Outgoing:       network.Outgoing(pid),
			OrderedBatches: batches,
			Data:           pool,
		}
		term := terminator.New(exit, "node"+strconv.Itoa(int(pid)), nodeLog)
		g.Go(func() error {
			return run.Consensus(nodeConf, keys[pid], hasher, rs, io, start, term, nodeLog)
		})
		g.Go(func() error {
			submit(pool, pid, opts.txRate, exit)
			return nil
		})
		g.Go(func() error {
			ordered[pid], txCounts[pid] = certify(batches, keys[pid], router, metrics, exit, opts.certTimeout, nodeLog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Int(logging.Size, router.Sessions()).Msg(logging.SessionsLeft)
	return summarize(ordered, txCounts)
}

// certify runs a multisignature session for the digest of every ordered batch, until exit is closed.
// Each session is released as soon as it completes or times out.
// Returns the hashes of all ordered units and the number of transactions they carried.
func certify(batches *queue.Queue[[]gomel.Unit], keys gomel.Keychain, router *rmc.Router, metrics rmc.Metrics, exit <-chan struct{}, timeout time.Duration, log zerolog.Logger) ([]gomel.Hash, int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-exit:
			cancel()
		case <-ctx.Done():
		}
	}()
	var (
		result  []gomel.Hash
		txCount int
	)
	for {
		select {
		case <-exit:
			return result, txCount
		case <-batches.Ready():
			for _, batch := range batches.Drain() {
				result = append(result, tests.Hashes(batch)...)
				txs, err := transactions.FromBatch(batch)
				if err != nil {
					log.Error().Str("where", "certify").Msg(err.Error())
				}
				txCount += len(txs)
				digest := gomel.CombineHashes(gomel.ToHashes(batch))
				agg := rmc.NewAggregator(digest, keys, router.Sink(keys.Pid(), digest), metrics, log)
				sctx, scancel := context.WithTimeout(ctx, timeout)
				proof, err := agg.Run(sctx)
				scancel()
				router.Release(keys.Pid(), digest)
				if err != nil {
					log.Warn().Str(logging.Hash, digest.Short()).Str("reason", err.Error()).Msg(logging.SendFailed)
					continue
				}
				log.Info().Int(logging.Round, batch[len(batch)-1].Round()).Int(logging.Size, len(proof.Signers())).Msg(logging.AggregationComplete)
			}
		}
	}
}

func summarize(ordered [][]gomel.Hash, txCounts []int) error {
	longest := 0
	for pid, hashes := range ordered {
		fmt.Printf("process %d ordered %d units carrying %d transactions\n", pid, len(hashes), txCounts[pid])
		if len(hashes) > len(ordered[longest]) {
			longest = pid
		}
	}
	for pid, hashes := range ordered {
		for i, h := range hashes {
			if h != ordered[longest][i] {
				return fmt.Errorf("orders of processes %d and %d differ at position %d", pid, longest, i)
			}
		}
	}
	fmt.Println("All orders agree.")
	return nil
}
