package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"restow/internal/filecontext"
	"restow/internal/uploads"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var entityID int64
	var slotName string

	cmd := &cobra.Command{
		Use:   "upload --entity <id> --slot <name> <file>...",
		Short: "Store files under an entity's canonical folder and link them to a slot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if entityID <= 0 {
				return fmt.Errorf("--entity must be a positive entity id")
			}
			slot := strings.TrimSpace(slotName)
			if slot == "" {
				return fmt.Errorf("--slot is required")
			}

			files := make([]uploads.Upload, 0, len(args))
			handles := make([]*os.File, 0, len(args))
			defer func() {
				for _, f := range handles {
					f.Close()
				}
			}()

			for _, arg := range args {
				up, handle, err := readUpload(arg)
				if err != nil {
					return err
				}
				files = append(files, up)
				handles = append(handles, handle)
			}

			return ctx.withServices(func(svc *cliServices) error {
				provider := uploads.NewProvider(svc.store, svc.catalog, svc.cfg.Store.PublicBaseURL, svc.logger)
				orchestrator := uploads.NewOrchestrator(svc.catalog, provider, svc.logger)

				stored, err := orchestrator.Stage(cmd.Context(), filecontext.NewScope(), entityID, slot, files)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, obj := range stored {
					fmt.Fprintf(out, "Stored %s as object #%d at %s\n", obj.FileName(), obj.ID, obj.CurrentKey)
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&entityID, "entity", 0, "Entity that owns the uploaded files")
	cmd.Flags().StringVar(&slotName, "slot", "", "Slot the files attach to (replaces existing occupants)")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("slot")
	return cmd
}

// readUpload opens a local file and describes it for the upload pipeline. The
// returned handle backs the upload body and must stay open until staging
// completes.
func readUpload(arg string) (uploads.Upload, *os.File, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return uploads.Upload{}, nil, fmt.Errorf("resolve path: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return uploads.Upload{}, nil, fmt.Errorf("open %s: %w", arg, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return uploads.Upload{}, nil, fmt.Errorf("inspect %s: %w", arg, err)
	}
	if info.IsDir() {
		file.Close()
		return uploads.Upload{}, nil, fmt.Errorf("%s is a directory", arg)
	}

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		file.Close()
		return uploads.Upload{}, nil, fmt.Errorf("hash %s: %w", arg, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return uploads.Upload{}, nil, fmt.Errorf("rewind %s: %w", arg, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return uploads.Upload{
		FileName:    filepath.Base(path),
		ContentType: contentType,
		ContentHash: hex.EncodeToString(hasher.Sum(nil)),
		Size:        info.Size(),
		Body:        file,
	}, file, nil
}
