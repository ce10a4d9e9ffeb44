package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for every table, in dependency order.  Statements
// are idempotent so EnsureSchema can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email      VARCHAR(255)    NOT NULL,
		name       VARCHAR(255)    NOT NULL,
		role       ENUM('user','admin') NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS wallets (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id          BIGINT UNSIGNED NOT NULL,
		balance          DECIMAL(10,2)   NOT NULL DEFAULT 0.00,
		pending_earnings DECIMAL(10,2)   NOT NULL DEFAULT 0.00,
		total_earnings   DECIMAL(10,2)   NOT NULL DEFAULT 0.00,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_wallets_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		wallet_id   BIGINT UNSIGNED NOT NULL,
		kind        ENUM('deposit','withdrawal','bid','refund','seller_earning','platform_fee') NOT NULL,
		amount      DECIMAL(10,2)   NOT NULL,
		status      ENUM('pending','completed','failed') NOT NULL DEFAULT 'pending',
		description VARCHAR(255)    NOT NULL DEFAULT '',
		reference   CHAR(36)        NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_wallet_transactions_reference (reference),
		KEY idx_wallet_transactions_lookup (wallet_id, kind, status, created_at),
		CONSTRAINT fk_wallet_transactions_wallet FOREIGN KEY (wallet_id) REFERENCES wallets (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS auctions (
		id                          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title                       VARCHAR(255)    NOT NULL,
		description                 TEXT            NOT NULL,
		starting_price              DECIMAL(10,2)   NOT NULL,
		current_price               DECIMAL(10,2)   NOT NULL,
		end_time                    DATETIME        NOT NULL,
		status                      ENUM('active','ended','cancelled','unsold','completed') NOT NULL DEFAULT 'active',
		seller_id                   BIGINT UNSIGNED NOT NULL,
		current_bidder_id           BIGINT UNSIGNED NULL,
		winner_id                   BIGINT UNSIGNED NULL,
		final_price                 DECIMAL(10,2)   NULL,
		settlement_time             DATETIME        NULL,
		type                        ENUM('settled','live') NOT NULL DEFAULT 'settled',
		minimum_bid_increment       DECIMAL(10,2)   NOT NULL DEFAULT 1.00,
		time_extension              INT             NOT NULL DEFAULT 0,
		minimum_wallet_balance      DECIMAL(10,2)   NOT NULL DEFAULT 0.00,
		minimum_bid_amount          DECIMAL(10,2)   NOT NULL DEFAULT 0.00,
		platform_fee_percentage     DECIMAL(5,2)    NOT NULL DEFAULT 10.00,
		live_auction_fee_percentage DECIMAL(5,2)    NOT NULL DEFAULT 20.00,
		buyer_premium_percentage    DECIMAL(5,2)    NOT NULL DEFAULT 5.00,
		listing_fee                 DECIMAL(10,2)   NOT NULL DEFAULT 10.00,
		last_bid_time               DATETIME        NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_auctions_close (status, end_time),
		KEY idx_auctions_type_close (type, status, end_time),
		KEY idx_auctions_seller (seller_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bids (
		id                    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		auction_id            BIGINT UNSIGNED NOT NULL,
		bidder_id             BIGINT UNSIGNED NOT NULL,
		amount                DECIMAL(10,2)   NOT NULL,
		wallet_transaction_id BIGINT UNSIGNED NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_bids_auction_amount (auction_id, amount),
		KEY idx_bids_bidder (bidder_id, created_at),
		CONSTRAINT fk_bids_auction FOREIGN KEY (auction_id) REFERENCES auctions (id),
		CONSTRAINT fk_bids_transaction FOREIGN KEY (wallet_transaction_id) REFERENCES wallet_transactions (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS auction_tickets (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		auction_id BIGINT UNSIGNED NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		status     ENUM('active','used','expired') NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_auction_tickets_pair (auction_id, user_id),
		CONSTRAINT fk_auction_tickets_auction FOREIGN KEY (auction_id) REFERENCES auctions (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS purchased_items (
		id                 BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		auction_id         BIGINT UNSIGNED NOT NULL,
		buyer_id           BIGINT UNSIGNED NOT NULL,
		seller_id          BIGINT UNSIGNED NOT NULL,
		purchase_price     DECIMAL(10,2)   NOT NULL,
		buyer_premium      DECIMAL(10,2)   NOT NULL,
		total_amount       DECIMAL(10,2)   NOT NULL,
		certificate_number VARCHAR(64)     NOT NULL,
		invoice_number     VARCHAR(64)     NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_purchased_items_auction (auction_id),
		UNIQUE KEY uq_purchased_items_certificate (certificate_number),
		UNIQUE KEY uq_purchased_items_invoice (invoice_number),
		KEY idx_purchased_items_buyer (buyer_id),
		CONSTRAINT fk_purchased_items_auction FOREIGN KEY (auction_id) REFERENCES auctions (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS platform_fees (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		auction_id BIGINT UNSIGNED NOT NULL,
		amount     DECIMAL(10,2)   NOT NULL,
		status     ENUM('settled') NOT NULL DEFAULT 'settled',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_platform_fees_auction (auction_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS earnings (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		auction_id BIGINT UNSIGNED NOT NULL,
		amount     DECIMAL(10,2)   NOT NULL,
		type       ENUM('seller')  NOT NULL DEFAULT 'seller',
		status     ENUM('settled') NOT NULL DEFAULT 'settled',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_earnings_user (user_id),
		KEY idx_earnings_auction (auction_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS listing_fees (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		auction_id BIGINT UNSIGNED NOT NULL,
		amount     DECIMAL(10,2)   NOT NULL,
		status     ENUM('settled') NOT NULL DEFAULT 'settled',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_listing_fees_auction (auction_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS ticket_fees (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		auction_id BIGINT UNSIGNED NOT NULL,
		user_id    BIGINT UNSIGNED NOT NULL,
		amount     DECIMAL(10,2)   NOT NULL,
		status     ENUM('settled') NOT NULL DEFAULT 'settled',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_ticket_fees_auction (auction_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates every table the application needs if it does not
// exist yet.  Safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
