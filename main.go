package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ebfe/scard"
	"github.com/gregLibert/sim-card/internal/config"
	"github.com/gregLibert/sim-card/internal/serialport"
	"github.com/gregLibert/sim-card/pkg/iso7816"
	"github.com/gregLibert/sim-card/pkg/modem"
	"github.com/gregLibert/sim-card/pkg/simcard"
	"github.com/gregLibert/sim-card/pkg/simfile"
	log "github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "optional environment file")
	compare := flag.Bool("compare", false, "compare the emulated card with a physical SIM in a PC/SC reader")
	describe := flag.Bool("describe", false, "decode the payload of successful +CRSM answers")
	dynamic := flag.Bool("dynamic", false, "serve files from the built-in profile instead of the answer table")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Configuration error: %s", err)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(cfg.LogLevel)

	// --- 1. Card Setup ---
	registry := simcard.NewRegistry(cfg.RegistryCapacity)

	var opts []simcard.Option
	if *dynamic {
		opts = append(opts, simcard.WithFiles(simcard.DefaultProfile(cfg.Port, cfg.Instance)...))
	}
	card, err := registry.Create(cfg.Port, cfg.Instance, opts...)
	if err != nil {
		log.Fatalf("Error creating SIM card: %s", err)
	}
	defer registry.Destroy(card)

	if cfg.PIN != "" {
		card.SetPIN(cfg.PIN)
	}
	if cfg.PUK != "" {
		card.SetPUK(cfg.PUK)
	}

	log.WithFields(log.Fields{
		"port":     card.Port(),
		"instance": card.Instance(),
		"mode":     card.Mode(),
	}).Info("SIM card ready")

	// --- 2. Execution Flow ---
	if *compare {
		if err := runCompare(card, cfg.Reader); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := runConsole(card, cfg, *describe); err != nil {
		log.Fatal(err)
	}
}

// =========================================================================
// Console Mode
// =========================================================================

type console struct {
	io.Reader
	io.Writer
}

// runConsole answers AT commands on stdin/stdout or on the configured serial
// device until end of input or SIGINT.
func runConsole(card *simcard.Card, cfg config.Config, describe bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rw io.ReadWriter = console{Reader: os.Stdin, Writer: os.Stdout}
	if cfg.SerialPort != "" {
		port, err := serialport.Open(cfg.SerialPort, cfg.SerialBaud, cfg.SerialMatch)
		if err != nil {
			return err
		}
		defer func() {
			if err := port.Close(); err != nil {
				log.Warnf("Failed to close serial port: %v", err)
			}
		}()
		rw = port
		log.WithField("device", cfg.SerialPort).Info("serving on serial port")
	}

	opts := []modem.Option{modem.WithLogger(log.StandardLogger())}
	if describe {
		opts = append(opts, modem.WithObserver(describeResponse))
	}

	err := modem.NewSession(card, opts...).Serve(ctx, rw)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// describeResponse prints the decoded payload of a successful answer on
// stderr, leaving the AT stream untouched.
func describeResponse(request string, resp simcard.Response) {
	if !resp.IsSuccess() || resp.Payload == "" {
		return
	}
	cmd, err := simcard.ParseCommand(request)
	if err != nil || cmd.Code == simcard.CmdGetResponse {
		return
	}
	data, err := resp.Data()
	if err != nil {
		return
	}

	report, err := simfile.Describe(uint16(cmd.FileID), data)
	if err != nil {
		log.WithError(err).WithField("request", request).Debug("payload not decoded")
		return
	}
	fmt.Fprintln(os.Stderr, report)
}

// =========================================================================
// Comparison Mode
// =========================================================================

// runCompare replays every request of the answer table on a physical SIM
// and on the emulated card.
func runCompare(card *simcard.Card, readerIndex int) error {
	ctx, reader, err := connectToCard(readerIndex)
	if err != nil {
		return err
	}

	defer func() {
		if err := ctx.Release(); err != nil {
			log.Warnf("Failed to release context: %v", err)
		}
	}()

	defer func() {
		if err := reader.Disconnect(scard.LeaveCard); err != nil {
			log.Warnf("Failed to disconnect card: %v", err)
		}
	}()

	physical := iso7816.NewClient(reader)
	emulated := iso7816.NewClient(simcard.NewTransmitter(card))

	requests := simcard.StaticCommands()
	for i, req := range requests {
		fmt.Println("\n=============================================")
		fmt.Printf(" [%d/%d] %s\n", i+1, len(requests), req)
		fmt.Println("=============================================")

		cmd, err := simcard.ParseCommand(req)
		if err != nil {
			return err
		}
		sel, apdu, err := cmd.APDUs()
		if err != nil {
			log.Warnf("Skipping %s: %v", req, err)
			continue
		}

		fmt.Println("\n--- Physical card ---")
		physicalTrace := exchange(physical, sel, apdu)
		fmt.Println("\n--- Emulated card ---")
		emulatedTrace := exchange(emulated, sel, apdu)

		if physicalTrace == nil || emulatedTrace == nil {
			continue
		}
		p, e := physicalTrace.Last().Response, emulatedTrace.Last().Response
		if p.Status == e.Status && string(p.Data) == string(e.Data) {
			fmt.Println(">> Identical answers")
		} else {
			fmt.Printf(">> DIFFERENT: physical %X %04X, emulated %X %04X\n", p.Data, uint16(p.Status), e.Data, uint16(e.Status))
		}
	}

	fmt.Println("\n>> Comparison Finished")
	return nil
}

// exchange selects the file then sends the command, printing both reports.
func exchange(client *iso7816.Client, sel, cmd *iso7816.CommandAPDU) iso7816.Trace {
	selTrace, err := client.Send(sel)
	if err != nil {
		log.Warnf("(!) SELECT failed: %v", err)
		return nil
	}
	fmt.Println(iso7816.Describe(selTrace))

	trace, err := client.Send(cmd)
	if err != nil {
		log.Warnf("(!) Communication broken: %v", err)
		return nil
	}
	fmt.Println(iso7816.Describe(trace))
	return trace
}

// connectToCard handles the PC/SC context establishment and reader connection.
func connectToCard(readerIndex int) (*scard.Context, *scard.Card, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, nil, fmt.Errorf("establishing context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || readerIndex < 0 || readerIndex >= len(readers) {
		if relErr := ctx.Release(); relErr != nil {
			log.Warnf("Failed to release context during error handling: %v", relErr)
		}
		return nil, nil, fmt.Errorf("no smart card reader #%d found (%d available)", readerIndex, len(readers))
	}

	log.Infof(">> Using reader: %s", readers[readerIndex])

	// GSM SIMs run T=0; T=1 is accepted for dual protocol readers.
	card, err := ctx.Connect(readers[readerIndex], scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		if relErr := ctx.Release(); relErr != nil {
			log.Warnf("Failed to release context during error handling: %v", relErr)
		}
		return nil, nil, fmt.Errorf("connecting to card: %w", err)
	}

	return ctx, card, nil
}
