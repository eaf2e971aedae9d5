package booking

import (
	"fmt"
	"time"
)

// Key layout. One partition per tenant/site/day holds the slot rows, a
// partition per booking holds its metadata, and the tenant partition keeps a
// pointer row per booking for listing.
//
//	TENANT#t#SITE#s#DATE#2025-10-01   SLOT#09:00#prof-1   reserved slot
//	BOOKING#<uuid>                    METADATA            booking record
//	TENANT#t                          BOOKING#<uuid>      list index pointer

func slotPartition(tenantID, siteID string, day time.Time) string {
	return fmt.Sprintf("TENANT#%s#SITE#%s#DATE#%s", tenantID, siteID, day.Format("2006-01-02"))
}

func slotSort(start time.Time, professionalID string) string {
	return "SLOT#" + start.Format("15:04") + "#" + professionalID
}

func bookingPartition(bookingID string) string { return "BOOKING#" + bookingID }

const bookingSort = "METADATA"

func tenantPartition(tenantID string) string { return "TENANT#" + tenantID }

func tenantBookingSort(bookingID string) string { return "BOOKING#" + bookingID }
