package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"guest_portal/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	row := r.db.QueryRowContext(ctx, getPropertySQL, id)

	var p domain.Property
	var address, cover, welcome, wifiName, wifiPass sql.NullString
	var checkin, rules, reviewURL, pushToken sql.NullString
	var recsJSON, videosJSON []byte

	if err := row.Scan(
		&p.ID,
		&p.HostID,
		&p.Nickname,
		&address,
		&cover,
		&welcome,
		&wifiName,
		&wifiPass,
		&checkin,
		&rules,
		&reviewURL,
		&p.LateCheckoutEnabled,
		&p.LateCheckoutPrice,
		&p.EarlyCheckinEnabled,
		&p.EarlyCheckinPrice,
		&p.TotalEarned,
		&p.CheckoutCount,
		&p.EarlyCheckinCount,
		&pushToken,
		&recsJSON,
		&videosJSON,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, err
	}

	p.Address = nullToPtr(address)
	p.CoverPhotoURL = nullToPtr(cover)
	p.WelcomeMessage = nullToPtr(welcome)
	p.WifiName = nullToPtr(wifiName)
	p.WifiPassword = nullToPtr(wifiPass)
	p.CheckinInstructions = nullToPtr(checkin)
	p.HouseRules = nullToPtr(rules)
	p.ReviewURL = nullToPtr(reviewURL)
	p.HostPushToken = nullToPtr(pushToken)
	_ = json.Unmarshal(recsJSON, &p.Recommendations)
	_ = json.Unmarshal(videosJSON, &p.Videos)
	return p, nil
}

func (r *Repo) GetRequest(ctx context.Context, id string) (domain.UpsellRequest, error) {
	return scanRequest(r.db.QueryRowContext(ctx, getRequestSQL, id))
}

type rowScanner interface{ Scan(dest ...any) error }

func scanRequest(row rowScanner) (domain.UpsellRequest, error) {
	var req domain.UpsellRequest
	var typ, status string
	var note, holdID sql.NullString
	var notifiedAt sql.NullTime

	if err := row.Scan(
		&req.ID,
		&req.PropertyID,
		&typ,
		&req.GuestName,
		&req.GuestEmail,
		&note,
		&status,
		&holdID,
		&req.Amount,
		&req.CreatedAt,
		&notifiedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.UpsellRequest{}, domain.ErrNotFound
		}
		return domain.UpsellRequest{}, err
	}

	req.Type = domain.UpsellType(typ)
	req.Status = domain.RequestStatus(status)
	req.Note = nullToPtr(note)
	req.HoldID = nullToPtr(holdID)
	if notifiedAt.Valid {
		t := notifiedAt.Time
		req.NotifiedAt = &t
	}
	return req, nil
}

func (r *Repo) InsertRequest(ctx context.Context, req domain.UpsellRequest) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, insertRequestSQL,
		id,
		req.PropertyID,
		string(req.Type),
		req.GuestName,
		req.GuestEmail,
		valStr(req.Note),
		string(domain.StatusPending),
		valStr(req.HoldID),
		req.Amount,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func counterColumn(t domain.UpsellType) string {
	if t == domain.UpsellLateCheckout {
		return "checkout_count"
	}
	return "early_checkin_count"
}

// ApproveRequest performs the pending->approved compare-and-set and the
// property credit in one transaction. A lost CAS (zero rows) means the
// request was resolved concurrently: the tx rolls back untouched.
func (r *Repo) ApproveRequest(ctx context.Context, requestID string, earned float64, t domain.UpsellType) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var req domain.UpsellRequest
	if err := r.transition(ctx, tx, requestID, domain.StatusApproved, &req); err != nil {
		return err
	}

	col := counterColumn(t)
	credit := fmt.Sprintf(creditPropertySQL, col, col)
	if _, err := tx.ExecContext(ctx, credit, earned, req.PropertyID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) DeclineRequest(ctx context.Context, requestID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var req domain.UpsellRequest
	if err := r.transition(ctx, tx, requestID, domain.StatusDeclined, &req); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) transition(ctx context.Context, tx *sql.Tx, requestID string, to domain.RequestStatus, out *domain.UpsellRequest) error {
	res, err := tx.ExecContext(ctx, transitionRequestSQL, string(to), requestID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Missing row and already-resolved row are different conditions.
		var status string
		err := tx.QueryRowContext(ctx, requestStatusSQL, requestID).Scan(&status)
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrAlreadyHandled
	}
	req, err := scanRequest(tx.QueryRowContext(ctx, getRequestSQL, requestID))
	if err != nil {
		return err
	}
	*out = req
	return nil
}

func (r *Repo) InsertCheckoutAck(ctx context.Context, a domain.CheckoutAck) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, insertAckSQL, id, a.PropertyID, a.GuestName, a.AcknowledgedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) ListUnnotified(ctx context.Context, limit int) ([]domain.UpsellRequest, error) {
	rows, err := r.db.QueryContext(ctx, listUnnotifiedSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UpsellRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *Repo) MarkNotified(ctx context.Context, requestID string) error {
	_, err := r.db.ExecContext(ctx, markNotifiedSQL, requestID)
	return err
}
