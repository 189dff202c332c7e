package registry

import "github.com/BearBump/CargoDesk/internal/models"

// Встроенная таблица перевозчиков. Порядок строк значим: при совпадении
// префикса у нескольких перевозчиков выигрывает более ранняя строка
// (SUDU числится и за MAERSK после поглощения Hamburg Süd, и за
// исторической записью HAMBURG_SUD ниже).
func defaultProfiles() []Profile {
	return []Profile{
		{
			Code:                    "MAERSK",
			DisplayName:             "Maersk",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"MAEU", "MRKU", "MSKU", "SUDU"},
			TrackingURLTemplate:     "https://www.maersk.com/tracking/{number}",
			APIAdapterAvailable:     true,
			ScrapeProviderAvailable: true,
		},
		{
			Code:                    "MSC",
			DisplayName:             "MSC Mediterranean Shipping Company",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"MSCU", "MEDU"},
			TrackingURLTemplate:     "https://www.msc.com/en/track-a-shipment?trackingNumber={number}",
			ScrapeProviderAvailable: true,
		},
		{
			Code:                    "CMA_CGM",
			DisplayName:             "CMA CGM",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"CMAU", "CGMU", "APZU"},
			TrackingURLTemplate:     "https://www.cma-cgm.com/ebusiness/tracking/search?number={number}",
			APIAdapterAvailable:     true,
			ScrapeProviderAvailable: true,
		},
		{
			Code:                    "HAPAG_LLOYD",
			DisplayName:             "Hapag-Lloyd",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"HLCU", "HLXU", "HLBU"},
			TrackingURLTemplate:     "https://www.hapag-lloyd.com/en/online-business/track/track-by-container-solution.html?container={number}",
			ScrapeProviderAvailable: true,
		},
		{
			Code:                    "ONE",
			DisplayName:             "Ocean Network Express",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"ONEU", "ONEY"},
			TrackingURLTemplate:     "https://ecomm.one-line.com/one-ecom/manage-shipment/cargo-tracking?trakNoParam={number}",
			ScrapeProviderAvailable: true,
		},
		{
			Code:                    "COSCO",
			DisplayName:             "COSCO Shipping Lines",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"COSU", "CSNU", "CBHU"},
			TrackingURLTemplate:     "https://elines.coscoshipping.com/ebusiness/cargotracking?number={number}",
			ScrapeProviderAvailable: true,
		},
		{
			Code:                    "EVERGREEN",
			DisplayName:             "Evergreen Line",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"EGHU", "EGSU", "EISU", "EMCU"},
			TrackingURLTemplate:     "https://ct.shipmentlink.com/servlet/TDB1_CargoTracking.do?BL={number}",
			ScrapeProviderAvailable: true,
		},
		{
			Code:                    "OOCL",
			DisplayName:             "OOCL",
			Mode:                    models.ModeOcean,
			IdentifierPrefixes:      []string{"OOLU", "OOCU"},
			TrackingURLTemplate:     "https://www.oocl.com/eng/ourservices/eservices/cargotracking/Pages/cargotracking.aspx?number={number}",
			ScrapeProviderAvailable: true,
		},
		{
			Code:                "ZIM",
			DisplayName:         "ZIM Integrated Shipping",
			Mode:                models.ModeOcean,
			IdentifierPrefixes:  []string{"ZIMU", "ZCSU"},
			TrackingURLTemplate: "https://www.zim.com/tools/track-a-shipment?consnumber={number}",
		},
		{
			Code:                "HMM",
			DisplayName:         "HMM",
			Mode:                models.ModeOcean,
			IdentifierPrefixes:  []string{"HMMU", "HDMU"},
			TrackingURLTemplate: "https://www.hmm21.com/e-service/general/trackNTrace/TrackNTrace.do?number={number}",
		},
		{
			Code:                "YANG_MING",
			DisplayName:         "Yang Ming Marine Transport",
			Mode:                models.ModeOcean,
			IdentifierPrefixes:  []string{"YMLU", "YMMU"},
			TrackingURLTemplate: "https://www.yangming.com/e-service/Track_Trace/track_trace_cargo_tracking.aspx?BLNo={number}",
		},
		{
			Code:                "WAN_HAI",
			DisplayName:         "Wan Hai Lines",
			Mode:                models.ModeOcean,
			IdentifierPrefixes:  []string{"WHLC", "WHSU"},
			TrackingURLTemplate: "https://www.wanhai.com/views/cargoTrack/CargoTrack.xhtml?query={number}",
		},
		{
			// Историческая запись: бренд поглощён Maersk, префикс SUDU
			// остаётся в таблице ради порядкового контракта.
			Code:                "HAMBURG_SUD",
			DisplayName:         "Hamburg Süd",
			Mode:                models.ModeOcean,
			IdentifierPrefixes:  []string{"SUDU", "ANNU"},
			TrackingURLTemplate: "https://www.hamburgsud-line.com/liner/en/liner_services/ecommerce/track_trace/index.html?number={number}",
		},
		{
			Code:                "ECU_WORLDWIDE",
			DisplayName:         "ECU Worldwide",
			Mode:                models.ModeLCL,
			IdentifierPrefixes:  []string{"ECUW"},
			TrackingURLTemplate: "https://ecuworldwide.com/track-shipment/?number={number}",
		},
		{
			Code:                    "ETHIOPIAN_AIRLINES",
			DisplayName:             "Ethiopian Airlines Cargo",
			Mode:                    models.ModeAir,
			IdentifierPrefixes:      []string{"071"},
			TrackingURLTemplate:     "https://cargo.ethiopianairlines.com/trackShipment?awb={number}",
			ScrapeProviderAvailable: true,
		},
		{
			Code:                "EMIRATES_SKYCARGO",
			DisplayName:         "Emirates SkyCargo",
			Mode:                models.ModeAir,
			IdentifierPrefixes:  []string{"176"},
			TrackingURLTemplate: "https://www.skycargo.com/track-shipment/?awb={number}",
		},
		{
			Code:                "QATAR_AIRWAYS_CARGO",
			DisplayName:         "Qatar Airways Cargo",
			Mode:                models.ModeAir,
			IdentifierPrefixes:  []string{"157"},
			TrackingURLTemplate: "https://www.qrcargo.com/s/track-your-shipment?awb={number}",
		},
		{
			Code:                "LUFTHANSA_CARGO",
			DisplayName:         "Lufthansa Cargo",
			Mode:                models.ModeAir,
			IdentifierPrefixes:  []string{"020"},
			TrackingURLTemplate: "https://lufthansa-cargo.com/eservices/etracking?awb={number}",
		},
		{
			Code:                "TURKISH_CARGO",
			DisplayName:         "Turkish Cargo",
			Mode:                models.ModeAir,
			IdentifierPrefixes:  []string{"235"},
			TrackingURLTemplate: "https://www.turkishcargo.com/en/online-services/shipment-tracking?awb={number}",
		},
		{
			Code:                "CARGOLUX",
			DisplayName:         "Cargolux",
			Mode:                models.ModeAir,
			IdentifierPrefixes:  []string{"172"},
			TrackingURLTemplate: "https://www.cargolux.com/our-expertise/e-services/track-trace?awb={number}",
		},
	}
}

func defaultGenericTrackers() []GenericTracker {
	return []GenericTracker{
		{DisplayName: "Track-Trace", URLTemplate: "https://www.track-trace.com/container/{number}"},
		{DisplayName: "SeaRates", URLTemplate: "https://www.searates.com/container/tracking/?number={number}"},
	}
}
