package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// PurchasedItem is created exactly once per settled auction with a
// winner.  It is the record the document collaborator renders
// certificates and invoices from; the engine only owns the row.
//
// Fields:
//  ID                – primary key identifier.
//  AuctionID         – settled auction (unique).
//  BuyerID           – winning bidder.
//  SellerID          – auction seller.
//  PurchasePrice     – the final hammer price.
//  BuyerPremium      – surcharge computed from the final price.
//  TotalAmount       – PurchasePrice + BuyerPremium.
//  CertificateNumber – generated unique certificate reference.
//  InvoiceNumber     – generated unique invoice reference.
//  CreatedAt         – creation timestamp.
type PurchasedItem struct {
    ID                uint64          // purchased_items.id
    AuctionID         uint64          // purchased_items.auction_id
    BuyerID           uint64          // purchased_items.buyer_id
    SellerID          uint64          // purchased_items.seller_id
    PurchasePrice     decimal.Decimal // purchased_items.purchase_price
    BuyerPremium      decimal.Decimal // purchased_items.buyer_premium
    TotalAmount       decimal.Decimal // purchased_items.total_amount
    CertificateNumber string          // purchased_items.certificate_number
    InvoiceNumber     string          // purchased_items.invoice_number
    CreatedAt         time.Time       // purchased_items.created_at
}
