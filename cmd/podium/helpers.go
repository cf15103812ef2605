package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/podium-optique/podium/internal/config"
	"github.com/podium-optique/podium/internal/model"
	"github.com/podium-optique/podium/internal/service"
	"github.com/podium-optique/podium/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/podium/podium.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadSettings reads the shop pricing configuration from viper.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing settings: %w", err)
	}
	return settings, nil
}

// criteriaFlags registers the shared filtering flags on a command.
func criteriaFlags(cmd *cobra.Command) {
	cmd.Flags().String("network", string(model.NetworkNone), "reimbursement network (HORS_RESEAU, KALIXIA, SANTECLAIR, CARTEBLANCHE, ITELIS, SEVEANE)")
	cmd.Flags().String("brand", "", "restrict to one brand (HOYA, ZEISS, SEIKO, CODIR, ORUS)")
	cmd.Flags().String("type", "", "lens geometry (UNIFOCAL, PROGRESSIF, DEGRESSIF, INTERIEUR, MULTIFOCAL)")
	cmd.Flags().String("index", "", "index of refraction, e.g. 1.60")
	cmd.Flags().String("design", "", "design filter")
	cmd.Flags().String("coating", "", "coating filter")
	cmd.Flags().Bool("photochromic", false, "photochromic lenses only")
	cmd.Flags().Bool("myopia-control", false, "myopia-control designs only")
	cmd.Flags().Bool("precal", false, "include the precalibration surcharge")
}

// criteriaFromFlags builds and validates the criteria a command received.
func criteriaFromFlags(cmd *cobra.Command) (model.Criteria, error) {
	network, _ := cmd.Flags().GetString("network")
	brand, _ := cmd.Flags().GetString("brand")
	lensType, _ := cmd.Flags().GetString("type")
	index, _ := cmd.Flags().GetString("index")
	design, _ := cmd.Flags().GetString("design")
	coating, _ := cmd.Flags().GetString("coating")
	photochromic, _ := cmd.Flags().GetBool("photochromic")
	myopiaControl, _ := cmd.Flags().GetBool("myopia-control")
	precal, _ := cmd.Flags().GetBool("precal")

	criteria := model.Criteria{
		Network:       model.Network(strings.ToUpper(strings.TrimSpace(network))),
		Brand:         strings.ToUpper(strings.TrimSpace(brand)),
		Type:          model.GeometryType(strings.ToUpper(strings.TrimSpace(lensType))),
		Index:         strings.TrimSpace(index),
		Design:        strings.TrimSpace(design),
		Coating:       strings.TrimSpace(coating),
		Photochromic:  photochromic,
		MyopiaControl: myopiaControl,
		Precal:        precal,
	}

	if err := criteria.Validate(); err != nil {
		return criteria, err
	}
	return criteria, nil
}
