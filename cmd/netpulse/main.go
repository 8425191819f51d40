package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NodePath81/netpulse/internal/app"
	"github.com/NodePath81/netpulse/internal/config"
	"github.com/NodePath81/netpulse/internal/netstat"
	"github.com/NodePath81/netpulse/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "run":
			runCmd := flag.NewFlagSet("run", flag.ExitOnError)
			configPath := runCmd.String("config", "config.yaml", "Path to config file")
			_ = runCmd.Parse(os.Args[2:])
			if *configPath == "config.yaml" && runCmd.NArg() > 0 {
				*configPath = runCmd.Arg(0)
			}
			runMonitor(*configPath)
			return
		case "check":
			checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
			configPath := checkCmd.String("config", "config.yaml", "Path to config file")
			_ = checkCmd.Parse(os.Args[2:])
			if *configPath == "config.yaml" && checkCmd.NArg() > 0 {
				*configPath = checkCmd.Arg(0)
			}
			checkConfig(*configPath)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		case "version", "-v", "--version":
			fmt.Println(version.Version)
			return
		}
	}

	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()
	if *configPath == "config.yaml" && len(flag.Args()) > 0 {
		*configPath = flag.Arg(0)
	}
	runMonitor(*configPath)
}

func runMonitor(configPath string) {
	supervisor := app.NewSupervisor(configPath)
	if err := supervisor.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	supervisor.Stop()
}

func checkConfig(path string) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("config valid: probing %s every %s, reporting to %s:%d\n",
		cfg.TargetIP, cfg.Interval.Duration(), cfg.UDPServer.IP, cfg.UDPServer.Port)

	// A missing interface is survivable at runtime (first available is
	// substituted) but almost always a misconfiguration; flag it here.
	warnMissingInterface(cfg.Interface)
	os.Exit(0)
}

func warnMissingInterface(name string) {
	ifaces, err := netstat.OSSource().Interfaces()
	if err != nil {
		return
	}
	for _, iface := range ifaces {
		if iface.Name == name {
			return
		}
	}
	fmt.Fprintf(os.Stderr, "warning: interface %q not present on this host; the sampler will substitute the first available interface\n", name)
}

func printHelp() {
	fmt.Print(`netpulse - network path telemetry producer

Usage:
  netpulse run --config <path>    Start the monitor
  netpulse check --config <path>  Validate config file
  netpulse help                   Show this help
  netpulse version                Print version

Legacy:
  netpulse --config <path>
  netpulse <config-path>
`)
}
