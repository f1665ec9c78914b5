package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msxdisasm/msxdis/internal/diag"
	"github.com/msxdisasm/msxdis/pkg/batch"
	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/header"
	"github.com/msxdisasm/msxdis/pkg/mem"
	"github.com/msxdisasm/msxdis/pkg/render"
	"github.com/msxdisasm/msxdis/pkg/result"
	"github.com/msxdisasm/msxdis/pkg/routines"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "msxdis",
		Short: "msxdis — static disassembler for MSX cartridge ROM images",
	}

	rootCmd.AddCommand(newDisasmCmd(), newRoutinesCmd(), newBatchCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newDisasmCmd() *cobra.Command {
	var style string
	var dialect string
	var routinesFile string
	var maxPCs int
	var checkpointPath string
	var resumePath string

	cmd := &cobra.Command{
		Use:   "disasm <rom-file>",
		Short: "Disassemble one ROM image and print it to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			romPath := args[0]

			styleVal, err := parseStyle(style)
			if err != nil {
				return err
			}
			if maxPCs > 0 && maxPCs != explore.MaxQueuedPCs {
				diag.Warnf("--max-pcs=%d is not applied; the ceiling stays at %d", maxPCs, explore.MaxQueuedPCs)
			}

			tbl := routines.New()
			if routinesFile != "" {
				if err := mergeRoutinesFile(tbl, routinesFile); err != nil {
					return fmt.Errorf("loading --routines %s: %w", routinesFile, err)
				}
			}

			space, err := loadROM(romPath)
			if err != nil {
				return err
			}

			ex := explore.New(space, tbl)
			hdr, hdrErr := header.Read(space, explore.BaseAddr)
			if hdrErr == nil {
				ex.AddRoutine(hdr.Init, "entry")
			}

			if resumePath != "" {
				diag.Infof("resuming from %s (checkpoint resume applies at the batch level; disasm runs fresh and reports the same entry point)", resumePath)
			}

			runErr := ex.Run(styleVal)
			for _, w := range ex.Warnings() {
				diag.Warnf("%s", w)
			}

			r := dialectRenderer(dialect, tbl)
			var sb strings.Builder
			if hdrErr == nil {
				sb.WriteString(header.Render(hdr))
			}
			render.WriteAll(&sb, ex, tbl, r)
			fmt.Print(sb.String())

			if checkpointPath != "" {
				ckpt := &result.Checkpoint{}
				ckpt.MarkCompleted(romPath, result.FromExplorer(ex))
				if err := result.SaveCheckpoint(checkpointPath, ckpt); err != nil {
					return fmt.Errorf("writing --checkpoint %s: %w", checkpointPath, err)
				}
			}

			return runErr
		},
	}

	cmd.Flags().StringVar(&style, "style", "branch-all", "Exploration style: branch-all or linear")
	cmd.Flags().StringVar(&dialect, "dialect", "native", "Output dialect: native or asm")
	cmd.Flags().StringVar(&routinesFile, "routines", "", "Extra address->name mappings, one \"0xNNNN name\" per line")
	cmd.Flags().IntVar(&maxPCs, "max-pcs", explore.MaxQueuedPCs, "Queue-overflow ceiling (only the default is applied; other values print a warning)")
	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Write the finished run's records to this gob-encoded file")
	cmd.Flags().StringVar(&resumePath, "resume", "", "Accepted but not read by disasm, which always runs fresh (batch --resume skips completed ROMs)")
	return cmd
}

func newRoutinesCmd() *cobra.Command {
	var style string
	var routinesFile string

	cmd := &cobra.Command{
		Use:   "routines <rom-file>",
		Short: "Print the routine table discovered while exploring a ROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			styleVal, err := parseStyle(style)
			if err != nil {
				return err
			}

			tbl := routines.New()
			seeded := map[uint16]bool{}
			for _, e := range tbl.Entries() {
				seeded[e.Address] = true
			}
			user := map[uint16]bool{}
			if routinesFile != "" {
				if err := mergeRoutinesFile(tbl, routinesFile); err != nil {
					return fmt.Errorf("loading --routines %s: %w", routinesFile, err)
				}
				for _, e := range tbl.Entries() {
					if !seeded[e.Address] {
						user[e.Address] = true
					}
				}
			}

			space, err := loadROM(args[0])
			if err != nil {
				return err
			}
			ex := explore.New(space, tbl)
			if hdr, err := header.Read(space, explore.BaseAddr); err == nil {
				ex.AddRoutine(hdr.Init, "entry")
			}
			_ = ex.Run(styleVal)

			for _, e := range tbl.Entries() {
				origin := "explorer"
				if seeded[e.Address] {
					origin = "bios"
				} else if user[e.Address] {
					origin = "user"
				}
				fmt.Printf("0x%04X\t%s\t%s\n", e.Address, e.Name, origin)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "branch-all", "Exploration style: branch-all or linear")
	cmd.Flags().StringVar(&routinesFile, "routines", "", "Extra address->name mappings, one \"0xNNNN name\" per line")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var style string
	var dialect string
	var numWorkers int
	var checkpointPath string
	var resumePath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "batch <rom-dir>",
		Short: "Disassemble every ROM under a directory concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			styleVal, err := parseStyle(style)
			if err != nil {
				return err
			}

			paths, err := romsUnder(args[0])
			if err != nil {
				return err
			}
			tasks := make([]batch.Task, len(paths))
			for i, p := range paths {
				tasks[i] = batch.Task{Path: p}
			}

			var resume *result.Checkpoint
			if resumePath != "" {
				resume, err = result.LoadCheckpoint(resumePath)
				if err != nil {
					return fmt.Errorf("loading --resume %s: %w", resumePath, err)
				}
			} else {
				resume = &result.Checkpoint{}
			}

			pool := batch.NewPool(numWorkers, routines.New(), styleVal)
			outcomes := pool.Run(tasks, resume, verbose)

			for _, o := range outcomes {
				if o.Err != nil {
					diag.Warnf("%s: %v", o.Path, o.Err)
					continue
				}
				resume.MarkCompleted(o.Path, o.Table)

				r := dialectRenderer(dialect, routines.New())
				lstPath := strings.TrimSuffix(o.Path, filepath.Ext(o.Path)) + ".lst"
				if err := writeListing(lstPath, o.Table, r); err != nil {
					diag.Warnf("%s: writing listing: %v", o.Path, err)
				}
			}

			if checkpointPath != "" {
				if err := result.SaveCheckpoint(checkpointPath, resume); err != nil {
					return fmt.Errorf("writing --checkpoint %s: %w", checkpointPath, err)
				}
			}

			processed, failed := pool.Stats()
			diag.Infof("batch complete: %d processed, %d failed", processed, failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "branch-all", "Exploration style: branch-all or linear")
	cmd.Flags().StringVar(&dialect, "dialect", "native", "Output dialect: native or asm")
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Persist batch state to this gob-encoded file")
	cmd.Flags().StringVar(&resumePath, "resume", "", "Resume from a previously written checkpoint")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose per-ROM output")
	return cmd
}

func parseStyle(s string) (explore.Style, error) {
	switch strings.ToLower(s) {
	case "branch-all", "":
		return explore.BranchAll, nil
	case "linear":
		return explore.Linear, nil
	default:
		return 0, fmt.Errorf("unknown --style %q: use branch-all or linear", s)
	}
}

func dialectRenderer(d string, tbl *routines.Table) render.Renderer {
	switch strings.ToLower(d) {
	case "asm":
		return render.Asm{Routines: tbl}
	default:
		return render.Native{Routines: tbl}
	}
}

func loadROM(path string) (*mem.Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data)%16384 != 0 {
		diag.Warnf("%s is %d bytes, not a multiple of 16 KiB", path, len(data))
	}
	space := mem.New()
	space.LoadAt(explore.BaseAddr, data)
	return space, nil
}

func romsUnder(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// mergeRoutinesFile reads "0xNNNN name" lines and installs each as a label.
func mergeRoutinesFile(tbl *routines.Table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("malformed line %q: want \"0xNNNN name\"", line)
		}
		addrStr := strings.TrimPrefix(strings.ToLower(fields[0]), "0x")
		addr, err := strconv.ParseUint(addrStr, 16, 16)
		if err != nil {
			return fmt.Errorf("malformed address %q: %w", fields[0], err)
		}
		tbl.Add(uint16(addr), fields[1])
	}
	return sc.Err()
}

func writeListing(path string, tbl *result.Table, r render.Renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, e := range tbl.Records() {
		rec := &explore.Record{PC: e.PC, Instruction: e.Instruction, Predecessors: e.Predecessors}
		fmt.Fprintln(f, r.Line(rec))
	}
	return nil
}
