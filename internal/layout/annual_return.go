package layout

import "github.com/regscan/regscan/internal/document"

// Region coordinates below are hand-tuned against NAR1 annual return scans
// rasterized at 330 DPI (A4, 2729x3858 px). They must be reverified against
// representative samples whenever the rasterization DPI changes.
//
// Bilingual fields (names, addresses) carry chi_sim+eng language hints: the
// form repeats those values in Chinese and recognition degrades badly when
// the CJK glyphs are forced through the Latin model.

const (
	refWidth  = 2729
	refHeight = 3858
)

var cjk = []string{"chi_sim", "eng"}

// AnnualReturn returns the layout descriptor for NAR1 annual return filings.
// The form's data-bearing pages are 1 (company and presentor particulars),
// 2 (share capital), 3 (company secretary), 4 (directors) and 8
// (shareholders table).
func AnnualReturn() *document.Layout {
	return &document.Layout{
		Label:     "Annual Return",
		Pages:     8,
		RefWidth:  refWidth,
		RefHeight: refHeight,
		Regions: []document.FieldRegion{
			// Page 1: company particulars and presentor's reference box.
			{Name: "company_name", Page: 1, Box: document.Box{X: 320, Y: 700, W: 1900, H: 210}, Kind: document.KindName, Languages: cjk, Blur: true},
			{Name: "company_address", Page: 1, Box: document.Box{X: 320, Y: 1180, W: 1900, H: 330}, Kind: document.KindText, Languages: cjk, PSM: 4, Blur: true},
			{Name: "company_number", Page: 1, Box: document.Box{X: 2280, Y: 430, W: 360, H: 110}, Kind: document.KindNumber, Threshold: true},
			{Name: "date_of_return", Page: 1, Box: document.Box{X: 2120, Y: 620, W: 520, H: 110}, Kind: document.KindDate, Threshold: true},
			{Name: "presentors_name", Page: 1, Box: document.Box{X: 1760, Y: 2980, W: 880, H: 120}, Kind: document.KindName, PSM: 11, Scale: true},
			{Name: "presentors_address", Page: 1, Box: document.Box{X: 1760, Y: 3100, W: 880, H: 260}, Kind: document.KindText, Languages: cjk, PSM: 11, Scale: true},
			{Name: "presentors_telephone", Page: 1, Box: document.Box{X: 1760, Y: 3360, W: 880, H: 90}, Kind: document.KindPhone, Scale: true},
			{Name: "presentors_fax", Page: 1, Box: document.Box{X: 1760, Y: 3450, W: 880, H: 90}, Kind: document.KindPhone, Scale: true},
			{Name: "presentors_email", Page: 1, Box: document.Box{X: 1760, Y: 3540, W: 880, H: 100}, Kind: document.KindEmail, Scale: true},

			// Page 2: contact and the issued share capital table footer.
			{Name: "company_email", Page: 2, Box: document.Box{X: 320, Y: 980, W: 1500, H: 120}, Kind: document.KindEmail},
			{Name: "total_shares", Page: 2, Box: document.Box{X: 1080, Y: 2650, W: 520, H: 170}, Kind: document.KindAmount, PSM: 12, Blur: true},
			{Name: "total_amount", Page: 2, Box: document.Box{X: 1600, Y: 2650, W: 520, H: 170}, Kind: document.KindAmount, PSM: 12, Blur: true},
			{Name: "total_paid_up", Page: 2, Box: document.Box{X: 2120, Y: 2650, W: 520, H: 170}, Kind: document.KindAmount, PSM: 12, Blur: true},

			// Page 3: company secretary particulars.
			{Name: "company_secretary", Page: 3, Box: document.Box{X: 540, Y: 620, W: 1900, H: 210}, Kind: document.KindName, PSM: 12, Blur: true, Scale: true},
			{Name: "correspondence_address", Page: 3, Box: document.Box{X: 540, Y: 1060, W: 1900, H: 330}, Kind: document.KindText, Languages: cjk, PSM: 12, Blur: true, Scale: true},
			{Name: "secretarys_hkid", Page: 3, Box: document.Box{X: 540, Y: 1560, W: 1100, H: 120}, Kind: document.KindID, Threshold: true},
			{Name: "corporate_company_secretary", Page: 3, Box: document.Box{X: 540, Y: 2060, W: 1900, H: 160}, Kind: document.KindName, PSM: 4, Blur: true, Scale: true},
			{Name: "corporate_company_secretary_address", Page: 3, Box: document.Box{X: 540, Y: 2260, W: 1900, H: 330}, Kind: document.KindText, Languages: cjk, PSM: 4, Blur: true, Scale: true},
			{Name: "corporate_company_secretary_email", Page: 3, Box: document.Box{X: 540, Y: 2650, W: 1500, H: 120}, Kind: document.KindEmail},
			{Name: "corporate_company_secretary_cr_no", Page: 3, Box: document.Box{X: 540, Y: 2820, W: 700, H: 110}, Kind: document.KindNumber, PSM: 7, Blur: true, Scale: true},

			// Page 4: director particulars.
			{Name: "directors_name", Page: 4, Box: document.Box{X: 540, Y: 760, W: 1900, H: 210}, Kind: document.KindName, PSM: 12, Scale: true},
			{Name: "directors_address", Page: 4, Box: document.Box{X: 540, Y: 1260, W: 1900, H: 420}, Kind: document.KindText, Languages: cjk, PSM: 12, Blur: true, Scale: true},
			{Name: "directors_email", Page: 4, Box: document.Box{X: 540, Y: 1760, W: 1500, H: 120}, Kind: document.KindEmail},
			{Name: "directors_hkid", Page: 4, Box: document.Box{X: 540, Y: 1960, W: 1100, H: 120}, Kind: document.KindID, Threshold: true},

			// Page 8: shareholders table columns.
			{Name: "shareholders_names", Page: 8, Box: document.Box{X: 300, Y: 1120, W: 780, H: 2300}, Kind: document.KindTable, Languages: cjk, PSM: 12},
			{Name: "shareholders_addresses", Page: 8, Box: document.Box{X: 1080, Y: 1120, W: 900, H: 2300}, Kind: document.KindTable, Languages: cjk, PSM: 12},
			{Name: "shareholders_stake", Page: 8, Box: document.Box{X: 1980, Y: 1120, W: 640, H: 2300}, Kind: document.KindTable, PSM: 12},
		},
	}
}
