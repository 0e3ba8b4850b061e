// File: config/config.go
// Package config implements the CLI/config surface of §6: flag.FlagSet
// parsing for the enumerated flags, with an optional --config file.yaml
// overlay merged underneath the flag-parsed values.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AllocatorType selects the memory substrate's backing allocator (C2).
type AllocatorType string

const (
	AllocatorMalloc AllocatorType = "malloc"
	AllocatorHuge   AllocatorType = "huge"
	AllocatorGPU    AllocatorType = "gpu"
)

// Config is the merged CLI+YAML configuration surface named in §6.
type Config struct {
	LocalIPs          []string      `yaml:"local_ips"`
	SrcIPs            []string      `yaml:"src_ips"`
	DstIPs            []string      `yaml:"dst_ips"`
	DstPorts          []int         `yaml:"dst_ports"`
	Threads           int           `yaml:"threads"`
	Streams           int           `yaml:"streams"`
	Packets           int           `yaml:"packets"`
	PayloadSize       int           `yaml:"payload_size"`
	AppHdrSize        int           `yaml:"app_hdr_size"`
	InternalCore      int           `yaml:"internal_core"`
	ApplicationCore   int           `yaml:"application_core"`
	SleepUs           int           `yaml:"sleep_us"`
	GPUId             int           `yaml:"gpu_id"`
	LockGPUClocks     bool          `yaml:"lock_gpu_clocks"`
	Allocator         AllocatorType `yaml:"allocator_type"`
	RegisterMemory    bool          `yaml:"register_memory"`
	MaxPDUs           int           `yaml:"max_pd"`
	ExtendedSeqNum    bool          `yaml:"ext_seq_num"`
	ChecksumHeader    bool          `yaml:"checksum_header"`
	WaitEvent         bool          `yaml:"wait_event"`
	MetricsListenAddr string        `yaml:"metrics_listen_addr"`
}

// DefaultConfig mirrors facade.DefaultConfig's role: a baseline a caller
// can tweak before Parse overlays CLI/file values on top.
func DefaultConfig() *Config {
	return &Config{
		Threads:           1,
		Streams:           1,
		Packets:           0,
		PayloadSize:       1400,
		InternalCore:      -1,
		ApplicationCore:   -1,
		SleepUs:           0,
		GPUId:             -1,
		Allocator:         AllocatorMalloc,
		MaxPDUs:           50_000,
		MetricsListenAddr: ":9090",
	}
}

// Parse builds a FlagSet for the flags enumerated in §6, parses args
// against it, optionally loads --config as a YAML overlay applied
// before the explicit flags (so CLI always wins over file values), and
// returns the merged Config.
func Parse(args []string) (*Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("rivermedia", flag.ContinueOnError)
	var (
		configFile      = fs.String("config", "", "optional YAML config file")
		localIPs        = fs.String("local-ips", "", "comma-separated local interface IPs")
		srcIPs          = fs.String("src-ips", "", "comma-separated source IPs")
		dstIPs          = fs.String("dst-ips", "", "comma-separated destination IPs")
		dstPorts        = fs.String("dst-ports", "", "comma-separated destination ports")
		threads         = fs.Int("threads", cfg.Threads, "worker thread count")
		streams         = fs.Int("streams", cfg.Streams, "stream count")
		packets         = fs.Int("packets", cfg.Packets, "packets per stream, 0 for unbounded")
		payloadSize     = fs.Int("payload-size", cfg.PayloadSize, "payload bytes per packet")
		appHdrSize      = fs.Int("app-hdr-size", cfg.AppHdrSize, "application header bytes per packet")
		internalCore    = fs.Int("internal-core", cfg.InternalCore, "CPU id pinned for the transport's internal thread, -1 for unpinned")
		applicationCore = fs.Int("application-core", cfg.ApplicationCore, "CPU id pinned for the application threads, -1 for unpinned")
		sleepUs         = fs.Int("sleep-us", cfg.SleepUs, "NoFreeChunk backoff sleep in microseconds")
		gpuID           = fs.Int("gpu-id", cfg.GPUId, "GPU device id, -1 to disable GPU allocation")
		lockGPUClocks   = fs.Bool("lock-gpu-clocks", cfg.LockGPUClocks, "lock GPU clocks for the process lifetime")
		allocatorType   = fs.String("allocator-type", string(cfg.Allocator), "malloc|huge|gpu")
		registerMemory  = fs.Bool("register-memory", cfg.RegisterMemory, "register memory regions with the NIC")
		maxPD           = fs.Int("max-pd", cfg.MaxPDUs, "max path differential in microseconds (IPO)")
		extSeqNum       = fs.Bool("ext-seq-num", cfg.ExtendedSeqNum, "carry an extended 32-bit sequence number")
		checksumHeader  = fs.Bool("checksum-header", cfg.ChecksumHeader, "synthesize a checksum header for loss detection")
		waitEvent       = fs.Bool("wait-event", cfg.WaitEvent, "block on event-channel notification instead of polling")
	)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		if err := overlayYAML(cfg, *configFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", *configFile, err)
		}
	}

	visited := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	if visited["local-ips"] || len(cfg.LocalIPs) == 0 {
		cfg.LocalIPs = splitCSV(*localIPs)
	}
	if visited["src-ips"] || len(cfg.SrcIPs) == 0 {
		cfg.SrcIPs = splitCSV(*srcIPs)
	}
	if visited["dst-ips"] || len(cfg.DstIPs) == 0 {
		cfg.DstIPs = splitCSV(*dstIPs)
	}
	if visited["dst-ports"] || len(cfg.DstPorts) == 0 {
		ports, err := splitCSVInts(*dstPorts)
		if err != nil {
			return nil, fmt.Errorf("parsing --dst-ports: %w", err)
		}
		cfg.DstPorts = ports
	}
	if visited["threads"] {
		cfg.Threads = *threads
	}
	if visited["streams"] {
		cfg.Streams = *streams
	}
	if visited["packets"] {
		cfg.Packets = *packets
	}
	if visited["payload-size"] {
		cfg.PayloadSize = *payloadSize
	}
	if visited["app-hdr-size"] {
		cfg.AppHdrSize = *appHdrSize
	}
	if visited["internal-core"] {
		cfg.InternalCore = *internalCore
	}
	if visited["application-core"] {
		cfg.ApplicationCore = *applicationCore
	}
	if visited["sleep-us"] {
		cfg.SleepUs = *sleepUs
	}
	if visited["gpu-id"] {
		cfg.GPUId = *gpuID
	}
	if visited["lock-gpu-clocks"] {
		cfg.LockGPUClocks = *lockGPUClocks
	}
	if visited["allocator-type"] {
		cfg.Allocator = AllocatorType(*allocatorType)
	}
	if visited["register-memory"] {
		cfg.RegisterMemory = *registerMemory
	}
	if visited["max-pd"] {
		cfg.MaxPDUs = *maxPD
	}
	if visited["ext-seq-num"] {
		cfg.ExtendedSeqNum = *extSeqNum
	}
	if visited["checksum-header"] {
		cfg.ChecksumHeader = *checksumHeader
	}
	if visited["wait-event"] {
		cfg.WaitEvent = *waitEvent
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Allocator {
	case AllocatorMalloc, AllocatorHuge, AllocatorGPU:
	default:
		return fmt.Errorf("allocator-type must be malloc, huge, or gpu, got %q", c.Allocator)
	}
	if c.Threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	if c.Streams <= 0 {
		return fmt.Errorf("streams must be positive, got %d", c.Streams)
	}
	if c.PayloadSize <= 0 {
		return fmt.Errorf("payload-size must be positive, got %d", c.PayloadSize)
	}
	return nil
}

func overlayYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCSVInts(s string) ([]int, error) {
	strs := splitCSV(s)
	if strs == nil {
		return nil, nil
	}
	out := make([]int, 0, len(strs))
	for _, p := range strs {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// ShutdownGracePeriod bounds how long a cancellation drain waits before
// forcing exit, matching the teacher's examples/stest/server shutdown
// timeout pattern.
const ShutdownGracePeriod = 15 * time.Second
