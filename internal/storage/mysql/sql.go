package mysql

const getPropertySQL = `
SELECT
  id,
  host_id,
  nickname,
  address,
  cover_photo_url,
  welcome_message,
  wifi_name,
  wifi_password,
  checkin_instructions,
  house_rules,
  review_url,
  late_checkout_enabled,
  late_checkout_price,
  early_checkin_enabled,
  early_checkin_price,
  total_earned,
  checkout_count,
  early_checkin_count,
  host_push_token,
  recommendations,
  videos
FROM properties
WHERE id = ?
`

const getRequestSQL = `
SELECT
  id,
  property_id,
  type,
  guest_name,
  guest_email,
  note,
  status,
  hold_id,
  amount,
  created_at,
  notified_at
FROM upsell_requests
WHERE id = ?
`

const insertRequestSQL = `
INSERT INTO upsell_requests
  (id, property_id, type, guest_name, guest_email, note, status, hold_id, amount)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Status transitions are conditional on the prior status so concurrent
// resolutions of the same request cannot both succeed; callers check the
// affected-row count.
const transitionRequestSQL = `
UPDATE upsell_requests
SET status = ?
WHERE id = ? AND status = 'pending'
`

const requestStatusSQL = `
SELECT status FROM upsell_requests WHERE id = ?
`

// %s is a counter column chosen from the upsell type enum, never input.
const creditPropertySQL = `
UPDATE properties
SET total_earned = total_earned + ?,
    %s = %s + 1,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const insertAckSQL = `
INSERT INTO checkout_acknowledgments
  (id, property_id, guest_name, acknowledged_at)
VALUES
  (?, ?, ?, ?)
`

const listUnnotifiedSQL = `
SELECT
  id,
  property_id,
  type,
  guest_name,
  guest_email,
  note,
  status,
  hold_id,
  amount,
  created_at,
  notified_at
FROM upsell_requests
WHERE status = 'pending' AND notified_at IS NULL
ORDER BY created_at, id
LIMIT ?
`

const markNotifiedSQL = `
UPDATE upsell_requests
SET notified_at = CURRENT_TIMESTAMP
WHERE id = ? AND notified_at IS NULL
`
