package umfile

import (
	"github.com/robert-malhotra/go-umfile/internal/header"
)

// Lookup entry sizes in words.
const (
	LookupInts   = 45
	LookupReals  = 19
	LookupLength = LookupInts + LookupReals
)

// Lookup word positions (1-based) used directly by the pipeline.
const (
	posLBYR    = 1
	posLBFT    = 14
	posLBLREC  = 15
	posLBCODE  = 16
	posLBHEM   = 17
	posLBROW   = 18
	posLBNPT   = 19
	posLBPACK  = 21
	posLBREL   = 22
	posLBPROC  = 25
	posLBEGIN  = 29
	posLBNREC  = 30
	posLBUSER1 = 39
	posLBUSER3 = 41
	posLBUSER4 = 42
	posBACC    = 51
	posBZY     = 59
	posBDY     = 60
	posBZX     = 61
	posBDX     = 62
	posBMDI    = 63
)

// Special lookup values.
const (
	// emptyWord marks an unused lookup entry when found in word 1.
	emptyWord = -99
	// landSeaMaskCode is the STASH code (lbuser4) of the land/sea mask.
	landSeaMaskCode = 30
	// dumpSpecialRelease is the lbrel of partial mean fields in dumps.
	dumpSpecialRelease = header.MDI
)

var release3Names = header.Mapping{
	"lbyr": 1, "lbmon": 2, "lbdat": 3, "lbhr": 4, "lbmin": 5, "lbsec": 6,
	"lbyrd": 7, "lbmond": 8, "lbdatd": 9, "lbhrd": 10, "lbmind": 11, "lbsecd": 12,
	"lbtim": 13, "lbft": 14, "lblrec": 15, "lbcode": 16, "lbhem": 17,
	"lbrow": 18, "lbnpt": 19, "lbext": 20, "lbpack": 21, "lbrel": 22,
	"lbfc": 23, "lbcfc": 24, "lbproc": 25, "lbvc": 26, "lbrvc": 27,
	"lbexp": 28, "lbegin": 29, "lbnrec": 30, "lbproj": 31, "lbtyp": 32,
	"lblev": 33, "lbrsvd1": 34, "lbrsvd2": 35, "lbrsvd3": 36, "lbrsvd4": 37,
	"lbsrce": 38, "lbuser1": 39, "lbuser2": 40, "lbuser3": 41, "lbuser4": 42,
	"lbuser5": 43, "lbuser6": 44, "lbuser7": 45,
	"brsvd1": 46, "brsvd2": 47, "brsvd3": 48, "brsvd4": 49,
	"bdatum": 50, "bacc": 51, "blev": 52, "brlev": 53, "bhlev": 54,
	"bhrlev": 55, "bplat": 56, "bplon": 57, "bgor": 58, "bzy": 59,
	"bdy": 60, "bzx": 61, "bdx": 62, "bmdi": 63, "bmks": 64,
}

// Release 2 headers count days where release 3 counts seconds.
var release2Names = func() header.Mapping {
	m := make(header.Mapping, len(release3Names))
	for k, v := range release3Names {
		m[k] = v
	}
	delete(m, "lbsec")
	delete(m, "lbsecd")
	m["lbday"] = 6
	m["lbdayd"] = 12
	return m
}()

// Partial mean and accumulation fields in dumps only define their packing
// and addressing words.
var dumpSpecialNames = header.Mapping{
	"lbpack": 21, "lbegin": 29, "lbnrec": 30, "lbuser1": 39,
	"lbuser2": 40, "lbuser4": 42, "lbuser7": 45, "bacc": 51,
}

// releaseNames returns the name mapping for a lookup release, or nil.
func releaseNames(release int64) header.Mapping {
	switch release {
	case 2:
		return release2Names
	case 3:
		return release3Names
	case dumpSpecialRelease:
		return dumpSpecialNames
	}
	return nil
}
