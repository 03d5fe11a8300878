package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-viewer/internal/export"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		imagePath string
		outPath   string
		pageSize  string
		margin    float64
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Place a rendered chart image on a landscape PDF page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageSize == "" {
				pageSize = root.cfg.Export.PageSize
			}
			if !cmd.Flags().Changed("margin") {
				margin = root.cfg.Export.MarginMM
			}

			f, err := os.Open(imagePath)
			if err != nil {
				return withCode(exitUsage, err)
			}
			defer f.Close()

			raw, err := readAllLimited(f, root.cfg.Export.MaxImageBytes)
			if err != nil {
				return err
			}
			img, err := export.DecodeImage(base64.StdEncoding.EncodeToString(raw), 0)
			if err != nil {
				return withCode(exitValidation, fmt.Errorf("%s: %w", imagePath, err))
			}

			writer, err := export.NewPDFWriter(pageSize, margin, "Organization Chart")
			if err != nil {
				return withCode(exitUsage, err)
			}

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := writer.Write(out, img); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}

			loggerOrNop(root.logger).Info("chart exported",
				zap.String("image", imagePath),
				zap.String("out", outPath),
				zap.String("format", img.Format),
				zap.Int("width", img.Width),
				zap.Int("height", img.Height))
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "PNG or JPEG rendering of the chart (required)")
	cmd.Flags().StringVar(&outPath, "out", export.FileName, "Output PDF path")
	cmd.Flags().StringVar(&pageSize, "page", "", "Page size: A3, A4, A5, LETTER or LEGAL (default EXPORT_PAGE_SIZE)")
	cmd.Flags().Float64Var(&margin, "margin", 0, "Page margin in millimetres (default EXPORT_MARGIN_MM)")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}
