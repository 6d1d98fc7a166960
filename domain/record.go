package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.records (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     discogs_id      TEXT UNIQUE NOT NULL,
//     artist          TEXT NOT NULL,
//     title           TEXT NOT NULL,
//     format          TEXT,
//     label           TEXT,
//     catno           TEXT,
//     wants           INTEGER DEFAULT 0,
//     haves           INTEGER DEFAULT 0,
//     added           TIMESTAMPTZ DEFAULT NOW(),
//     genres          JSONB,
//     styles          JSONB,
//     suggested_price TEXT,
//     year            INTEGER
// );

type Record struct {
	ID             uint                       `gorm:"primaryKey" json:"id"`
	DiscogsID      string                     `gorm:"column:discogs_id;uniqueIndex;not null" json:"discogs_id"`
	Artist         string                     `gorm:"column:artist;not null" json:"artist"`
	Title          string                     `gorm:"column:title;not null" json:"title"`
	Format         string                     `gorm:"column:format;type:text" json:"format"`
	Label          string                     `gorm:"column:label;type:text" json:"label"`
	Catno          string                     `gorm:"column:catno;type:text" json:"catno"`
	Wants          int                        `gorm:"column:wants;default:0" json:"wants"`
	Haves          int                        `gorm:"column:haves;default:0" json:"haves"`
	Added          time.Time                  `gorm:"column:added;index:idx_records_added,sort:desc" json:"added"`
	Genres         datatypes.JSONSlice[string] `gorm:"column:genres" json:"genres"`
	Styles         datatypes.JSONSlice[string] `gorm:"column:styles" json:"styles"`
	SuggestedPrice string                     `gorm:"column:suggested_price;type:text" json:"suggested_price"`
	Year           *int                       `gorm:"column:year" json:"year"`
}

func (Record) TableName() string {
	return "records"
}

type Seller struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Currency string `gorm:"column:currency" json:"currency"`
}

func (Seller) TableName() string {
	return "sellers"
}

// Listing is one priced offer of a Record from a Seller. The selection
// engine only ever reads listings; score/evaluated/kept are owned by the
// scoring and evaluation flows.
type Listing struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	SellerID        uint    `gorm:"column:seller_id;not null" json:"seller_id"`
	RecordID        uint    `gorm:"column:record_id;not null" json:"record_id"`
	RecordPrice     float64 `gorm:"column:record_price;type:numeric(6,2)" json:"record_price"`
	MediaCondition  string  `gorm:"column:media_condition" json:"media_condition"`
	Score           float64 `gorm:"column:score;type:numeric(6,2);default:0" json:"score"`
	Kept            bool    `gorm:"column:kept;default:false" json:"kept"`
	Evaluated       bool    `gorm:"column:evaluated;default:false" json:"evaluated"`
	PredictedKeeper bool    `gorm:"column:predicted_keeper;default:false" json:"predicted_keeper"`

	Seller Seller `gorm:"foreignKey:SellerID" json:"seller"`
	Record Record `gorm:"foreignKey:RecordID" json:"record"`
}

func (Listing) TableName() string {
	return "listings"
}
