package document

import "time"

// Document is the persistent metadata record for one uploaded file. The raw
// bytes live in the blob store under StoredName; OriginalName is only used
// for presentation and for the download Content-Disposition header.
type Document struct {
	ID           string    `json:"id" bson:"id"`
	OwnerID      string    `json:"ownerId" bson:"ownerId"`
	StoredName   string    `json:"storedName" bson:"storedName"`
	OriginalName string    `json:"originalName" bson:"originalName"`
	FileURL      string    `json:"fileUrl" bson:"fileUrl"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
