package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hbr-recover/internal/cli/output"
	"github.com/yndnr/hbr-recover/internal/replica/folder"
	"github.com/yndnr/hbr-recover/internal/storage/vmsn"
)

// InspectCommand returns the inspect command.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Decode and validate a snapshot-state (.vmsn) file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show-config",
				Usage: "Include the embedded machine config",
			},
		},
		Action: runInspect,
	}
}

// Inspection is the decoded view of a snapshot-state file.
type Inspection struct {
	File             string     `json:"file" yaml:"file"`
	Size             int        `json:"size" yaml:"size"`
	Version          uint32     `json:"version" yaml:"version"`
	GroupName        string     `json:"group_name" yaml:"group_name"`
	FirstBlockOffset uint64     `json:"first_block_offset" yaml:"first_block_offset"`
	PayloadSize      uint64     `json:"payload_size" yaml:"payload_size"`
	Blocks           []BlockRow `json:"blocks" yaml:"blocks"`
	FirmwareBLAKE2b  string     `json:"firmware_blake2b_256,omitempty" yaml:"firmware_blake2b_256,omitempty"`
	Config           string     `json:"config,omitempty" yaml:"config,omitempty"`
}

// BlockRow is one block of a snapshot-state file.
type BlockRow struct {
	Name  string `json:"name" yaml:"name"`
	Flags string `json:"flags" yaml:"flags"`
	Size  uint64 `json:"size" yaml:"size" table:"bytes"`
}

func runInspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("inspect takes exactly one file, got %d arguments", c.NArg())
	}
	path := c.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	in, err := inspect(filepath.Base(path), data, c.Bool("show-config"))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return in.Render(outWriter(c), ParseGlobalFlags(c))
}

func inspect(name string, data []byte, withConfig bool) (*Inspection, error) {
	f, err := vmsn.Decode(data)
	if err != nil {
		return nil, err
	}

	in := &Inspection{
		File:             name,
		Size:             len(data),
		Version:          f.Version,
		GroupName:        f.GroupName,
		FirstBlockOffset: f.FirstBlockOffset,
		PayloadSize:      f.PayloadSize,
	}
	for _, b := range f.Blocks {
		in.Blocks = append(in.Blocks, BlockRow{Name: b.Name, Flags: fmt.Sprintf("0x%02X", b.Flags), Size: b.Size})
	}
	if fw, err := f.Firmware(); err == nil {
		in.FirmwareBLAKE2b = folder.Checksum(fw)
	}
	if withConfig {
		cfg, err := f.Config()
		if err != nil {
			return nil, err
		}
		in.Config = cfg
	}
	return in, nil
}

// Render writes the inspection in the selected format.
func (in *Inspection) Render(w io.Writer, flags *GlobalFlags) error {
	if flags.Output != output.FormatTable {
		return output.NewFormatter(flags.Output, flags.Wide).Format(w, in)
	}

	head := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	head.AddRow("file", in.File)
	head.AddRow("size", output.FormatBytes(int64(in.Size)))
	head.AddRow("version", strconv.FormatUint(uint64(in.Version), 10))
	head.AddRow("group", in.GroupName)
	head.AddRow("first block", fmt.Sprintf("0x%X", in.FirstBlockOffset))
	head.AddRow("payload", strconv.FormatUint(in.PayloadSize, 10))
	if in.FirmwareBLAKE2b != "" {
		head.AddRow("firmware blake2b", in.FirmwareBLAKE2b)
	}

	tf := &output.TableFormatter{Wide: flags.Wide}
	if err := tf.Format(w, head); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nBlocks"); err != nil {
		return err
	}
	if err := tf.Format(w, in.Blocks); err != nil {
		return err
	}
	if in.Config != "" {
		if _, err := fmt.Fprintf(w, "\nConfig\n%s", in.Config); err != nil {
			return err
		}
	}
	return nil
}
