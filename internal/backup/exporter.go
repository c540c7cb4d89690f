package backup

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"abarrotes-backend/internal/models"
	"abarrotes-backend/internal/repositories"
	"abarrotes-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Exporter writes nightly CSV snapshots of the catalog and cash cuts
// to an S3-compatible bucket (R2 in production).
type Exporter struct {
	client *s3.Client
	bucket string

	Products *repositories.ProductRepository
	CashCuts *repositories.CashCutRepository
}

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func NewExporter(ctx context.Context, opts Options, products *repositories.ProductRepository, cashCuts *repositories.CashCutRepository) (*Exporter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)),
		awsconfig.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure backup client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &Exporter{
		client:   client,
		bucket:   opts.Bucket,
		Products: products,
		CashCuts: cashCuts,
	}, nil
}

// Run starts the nightly export loop. Blocks until ctx is cancelled.
func (e *Exporter) Run(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.ExportOnce(ctx); err != nil {
				log.Printf("[Backup] Export failed: %v", err)
			}
		}
	}
}

// ExportOnce uploads one snapshot of both tables.
func (e *Exporter) ExportOnce(ctx context.Context) error {
	stamp := timeutil.Now().Format("2006-01-02")

	products, err := e.Products.List(ctx, 100000, 0)
	if err != nil {
		return fmt.Errorf("listing products: %w", err)
	}
	if err := e.upload(ctx, fmt.Sprintf("exports/%s/products.csv", stamp), productsCSV(products)); err != nil {
		return err
	}

	end := timeutil.Now()
	cuts, err := e.CashCuts.ListBetween(ctx, end.AddDate(0, 0, -1), end, 1000, 0)
	if err != nil {
		return fmt.Errorf("listing cash cuts: %w", err)
	}
	if err := e.upload(ctx, fmt.Sprintf("exports/%s/cash_cuts.csv", stamp), cashCutsCSV(cuts)); err != nil {
		return err
	}

	log.Printf("[Backup] Exported %d products and %d cash cuts", len(products), len(cuts))
	return nil
}

func (e *Exporter) upload(ctx context.Context, key string, body []byte) error {
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

func productsCSV(products []models.Product) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"key", "name", "cost", "units_per_box", "markup", "unit_cost", "price"})
	for _, p := range products {
		w.Write([]string{
			p.Key,
			p.Name,
			strconv.FormatFloat(p.Cost, 'f', 2, 64),
			strconv.Itoa(p.UnitsPerBox),
			strconv.FormatFloat(p.Markup, 'f', 4, 64),
			strconv.FormatFloat(p.UnitCost, 'f', 2, 64),
			strconv.FormatFloat(p.Price, 'f', 2, 64),
		})
	}
	w.Flush()
	return buf.Bytes()
}

func cashCutsCSV(cuts []models.CashCut) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"id", "created_at", "total_income", "total_expenses", "computed_cash", "delivered_cash", "variance"})
	for _, c := range cuts {
		w.Write([]string{
			strconv.Itoa(c.ID),
			c.CreatedAt.Format(time.RFC3339),
			strconv.FormatFloat(c.TotalIncome, 'f', 2, 64),
			strconv.FormatFloat(c.TotalExpenses, 'f', 2, 64),
			strconv.FormatFloat(c.ComputedCash, 'f', 2, 64),
			strconv.FormatFloat(c.DeliveredCash, 'f', 2, 64),
			strconv.FormatFloat(c.Variance, 'f', 2, 64),
		})
	}
	w.Flush()
	return buf.Bytes()
}
