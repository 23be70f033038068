package sqlite

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
)

// Snapshot location labels reported on reads.
const (
	locationLive    = "live"
	locationArchive = "archive"
)

// snapshotStore implements driven.SnapshotStore.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// archivedPanel is the JSON shape panel records take inside a compressed
// archive payload. Gene identifiers are stored sorted.
type archivedPanel struct {
	ClinicalCode string   `json:"clinical_code"`
	Name         string   `json:"name"`
	PanelVersion string   `json:"panel_version"`
	Genes        []string `json:"genes"`
}

// Promote writes a new snapshot with its panels and makes it current in a
// single transaction. The previously current snapshot's panels are moved
// into the compressed archive; promoting an existing version id replaces
// that version's panel set instead of archiving it.
func (s *snapshotStore) Promote(ctx context.Context, snapshot domain.Snapshot, panels []domain.PanelRecord) error {
	s.store.writeMu.Lock()
	defer s.store.writeMu.Unlock()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning promotion: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Archive the previously current snapshot, unless we are rebuilding the
	// same version id.
	var prevVersion string
	err = tx.QueryRowContext(ctx,
		"SELECT version FROM snapshots WHERE is_current = 1").Scan(&prevVersion)
	switch {
	case err == sql.ErrNoRows:
		// First snapshot ever.
	case err != nil:
		return fmt.Errorf("finding current snapshot: %w", err)
	case prevVersion != snapshot.Version:
		if err := archiveSnapshot(ctx, tx, prevVersion); err != nil {
			return err
		}
	}

	// Clear any prior state for this version id (same-day rebuild).
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM panels WHERE snapshot_version = ?", snapshot.Version); err != nil {
		return fmt.Errorf("clearing panels for %s: %w", snapshot.Version, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM snapshot_archive WHERE snapshot_version = ?", snapshot.Version); err != nil {
		return fmt.Errorf("clearing archive for %s: %w", snapshot.Version, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (version, retrieved_at, is_current, archived, panel_count)
		VALUES (?, ?, 1, 0, ?)
		ON CONFLICT(version) DO UPDATE SET
			retrieved_at = excluded.retrieved_at,
			is_current = 1,
			archived = 0,
			panel_count = excluded.panel_count
	`, snapshot.Version, snapshot.RetrievedAt.UTC().Format(time.RFC3339), len(panels))
	if err != nil {
		return fmt.Errorf("inserting snapshot %s: %w", snapshot.Version, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO panels (snapshot_version, clinical_code, name, panel_version, genes)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing panel insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range panels {
		genesJSON, err := json.Marshal(rec.Genes.Sorted())
		if err != nil {
			return fmt.Errorf("marshalling genes for %s: %w", rec.ClinicalCode, err)
		}
		if _, err := stmt.ExecContext(ctx, snapshot.Version, rec.ClinicalCode,
			rec.Name, rec.PanelVersion, string(genesJSON)); err != nil {
			return fmt.Errorf("inserting panel %s: %w", rec.ClinicalCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing promotion: %w", err)
	}
	return nil
}

// archiveSnapshot compresses a snapshot's live panel rows into the archive
// table and flips its flags. Runs inside the promotion transaction.
func archiveSnapshot(ctx context.Context, tx *sql.Tx, version string) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT clinical_code, name, panel_version, genes
		FROM panels WHERE snapshot_version = ?
		ORDER BY clinical_code
	`, version)
	if err != nil {
		return fmt.Errorf("reading panels of %s: %w", version, err)
	}

	var archived []archivedPanel
	for rows.Next() {
		var ap archivedPanel
		var genesJSON string
		if err := rows.Scan(&ap.ClinicalCode, &ap.Name, &ap.PanelVersion, &genesJSON); err != nil {
			rows.Close()
			return fmt.Errorf("scanning panel of %s: %w", version, err)
		}
		if err := json.Unmarshal([]byte(genesJSON), &ap.Genes); err != nil {
			rows.Close()
			return fmt.Errorf("unmarshaling genes of %s: %w", version, err)
		}
		archived = append(archived, ap)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating panels of %s: %w", version, err)
	}
	rows.Close()

	payload, err := compressPanels(archived)
	if err != nil {
		return fmt.Errorf("compressing snapshot %s: %w", version, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_archive (snapshot_version, payload, archived_at)
		VALUES (?, ?, ?)
		ON CONFLICT(snapshot_version) DO UPDATE SET
			payload = excluded.payload,
			archived_at = excluded.archived_at
	`, version, payload, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("archiving snapshot %s: %w", version, err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM panels WHERE snapshot_version = ?", version); err != nil {
		return fmt.Errorf("removing live panels of %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE snapshots SET is_current = 0, archived = 1 WHERE version = ?", version); err != nil {
		return fmt.Errorf("flagging snapshot %s archived: %w", version, err)
	}
	return nil
}

// compressPanels gzips the JSON rendering of archived panel records.
func compressPanels(panels []archivedPanel) ([]byte, error) {
	raw, err := json.Marshal(panels)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompressPanels reverses compressPanels.
func decompressPanels(payload []byte) ([]archivedPanel, error) {
	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(gz)
	if cerr := gz.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	var panels []archivedPanel
	if err := json.Unmarshal(raw, &panels); err != nil {
		return nil, err
	}
	return panels, nil
}

// Current returns the current snapshot.
func (s *snapshotStore) Current(ctx context.Context) (*domain.Snapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT version, retrieved_at, archived, panel_count
		FROM snapshots WHERE is_current = 1
	`)
	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoCurrentSnapshot
	}
	return snapshot, err
}

// GetByVersion returns a snapshot by version id, current or archived.
func (s *snapshotStore) GetByVersion(ctx context.Context, version string) (*domain.Snapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT version, retrieved_at, archived, panel_count
		FROM snapshots WHERE version = ?
	`, version)
	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, version)
	}
	return snapshot, err
}

// List returns all snapshots, newest version first.
func (s *snapshotStore) List(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT version, retrieved_at, archived, panel_count
		FROM snapshots ORDER BY version DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot //nolint:prealloc // size unknown from query
	for rows.Next() {
		var snap domain.Snapshot
		var retrievedAt string
		var archived int
		if err := rows.Scan(&snap.Version, &retrievedAt, &archived, &snap.PanelCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		fillSnapshot(&snap, retrievedAt, archived)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

// scanSnapshot scans a single snapshot row.
func scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	var retrievedAt string
	var archived int
	if err := row.Scan(&snap.Version, &retrievedAt, &archived, &snap.PanelCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	fillSnapshot(&snap, retrievedAt, archived)
	return &snap, nil
}

func fillSnapshot(snap *domain.Snapshot, retrievedAt string, archived int) {
	if t, err := time.Parse(time.RFC3339, retrievedAt); err == nil {
		snap.RetrievedAt = t
	}
	snap.Archived = archived == 1
	if snap.Archived {
		snap.Location = locationArchive
	} else {
		snap.Location = locationLive
	}
}

// ==================== Panel Store ====================

// panelStore implements driven.PanelStore. Reads fall through to the
// compressed archive when the snapshot has been superseded.
type panelStore struct {
	store *Store
}

var _ driven.PanelStore = (*panelStore)(nil)

// GetPanel returns the record for a clinical code within a snapshot version.
func (s *panelStore) GetPanel(ctx context.Context, version, clinicalCode string) (*domain.PanelRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT clinical_code, name, panel_version, genes
		FROM panels WHERE snapshot_version = ? AND clinical_code = ?
	`, version, clinicalCode)

	var rec domain.PanelRecord
	var genesJSON string
	err := row.Scan(&rec.ClinicalCode, &rec.Name, &rec.PanelVersion, &genesJSON)
	switch {
	case err == nil:
		var genes []string
		if err := json.Unmarshal([]byte(genesJSON), &genes); err != nil {
			return nil, fmt.Errorf("unmarshaling genes for %s: %w", clinicalCode, err)
		}
		rec.Genes = domain.NewGeneSet(genes...)
		rec.SnapshotVersion = version
		return &rec, nil
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("scanning panel: %w", err)
	}

	// Not live; try the archive.
	panels, err := s.archivedPanels(ctx, version)
	if err != nil {
		return nil, err
	}
	for _, ap := range panels {
		if ap.ClinicalCode == clinicalCode {
			return &domain.PanelRecord{
				ClinicalCode:    ap.ClinicalCode,
				Name:            ap.Name,
				PanelVersion:    ap.PanelVersion,
				Genes:           domain.NewGeneSet(ap.Genes...),
				SnapshotVersion: version,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in snapshot %s", domain.ErrPanelNotFound, clinicalCode, version)
}

// ListPanels returns all records of a snapshot version ordered by clinical
// code.
func (s *panelStore) ListPanels(ctx context.Context, version string) ([]domain.PanelRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT clinical_code, name, panel_version, genes
		FROM panels WHERE snapshot_version = ?
		ORDER BY clinical_code
	`, version)
	if err != nil {
		return nil, fmt.Errorf("querying panels: %w", err)
	}
	defer rows.Close()

	var records []domain.PanelRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.PanelRecord
		var genesJSON string
		if err := rows.Scan(&rec.ClinicalCode, &rec.Name, &rec.PanelVersion, &genesJSON); err != nil {
			return nil, fmt.Errorf("scanning panel: %w", err)
		}
		var genes []string
		if err := json.Unmarshal([]byte(genesJSON), &genes); err != nil {
			return nil, fmt.Errorf("unmarshaling genes for %s: %w", rec.ClinicalCode, err)
		}
		rec.Genes = domain.NewGeneSet(genes...)
		rec.SnapshotVersion = version
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating panels: %w", err)
	}

	if len(records) > 0 {
		return records, nil
	}

	// No live rows; the snapshot may be archived.
	panels, err := s.archivedPanels(ctx, version)
	if err != nil {
		return nil, err
	}
	for _, ap := range panels {
		records = append(records, domain.PanelRecord{
			ClinicalCode:    ap.ClinicalCode,
			Name:            ap.Name,
			PanelVersion:    ap.PanelVersion,
			Genes:           domain.NewGeneSet(ap.Genes...),
			SnapshotVersion: version,
		})
	}
	return records, nil
}

// archivedPanels loads and decompresses a snapshot's archive payload. A
// missing snapshot surfaces as domain.ErrSnapshotNotFound; a snapshot with
// no archive row resolves to an empty slice.
func (s *panelStore) archivedPanels(ctx context.Context, version string) ([]archivedPanel, error) {
	var payload []byte
	err := s.store.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshot_archive WHERE snapshot_version = ?", version).Scan(&payload)
	if err == sql.ErrNoRows {
		var exists int
		if err := s.store.db.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM snapshots WHERE version = ?", version).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking snapshot %s: %w", version, err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, version)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive of %s: %w", version, err)
	}
	panels, err := decompressPanels(payload)
	if err != nil {
		return nil, fmt.Errorf("decompressing archive of %s: %w", version, err)
	}
	return panels, nil
}
