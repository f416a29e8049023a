package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDraft() *AlertDraft {
	return NewAlertDraft("draft-1", "user-1", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
}

func TestAlertDraft_AutoDetection(t *testing.T) {
	t.Run("取得成功でgpsに遷移", func(t *testing.T) {
		d := newTestDraft()
		gen, err := d.ApplyAutoDetection(Acquisition{Coordinate: &Coordinate{Latitude: 40.4168, Longitude: -3.7038}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), gen)
		assert.Equal(t, ModeGPS, d.Mode())
		assert.Empty(t, d.Message)
	})

	t.Run("取得失敗でpostalに遷移しメッセージを残す", func(t *testing.T) {
		d := newTestDraft()
		_, err := d.ApplyAutoDetection(Acquisition{Failure: FailureDenied, Message: MessagePermissionDenied})
		require.NoError(t, err)
		assert.Equal(t, ModePostal, d.Mode())
		assert.Equal(t, MessagePermissionDenied, d.Message)
	})

	t.Run("auto以外からは自動判定できない", func(t *testing.T) {
		d := newTestDraft()
		require.NoError(t, d.SwitchTo(ModeManual))
		_, err := d.ApplyAutoDetection(Acquisition{Coordinate: &Coordinate{Latitude: 1, Longitude: 2}})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, ModeManual, d.Mode())
	})

	t.Run("autoには戻れない", func(t *testing.T) {
		d := newTestDraft()
		require.NoError(t, d.SwitchTo(ModePostal))
		assert.ErrorIs(t, d.SwitchTo(ModeAuto), ErrInvalidTransition)
		assert.ErrorIs(t, d.SwitchTo(ModeGPS), ErrInvalidTransition)
		assert.Equal(t, ModePostal, d.Mode())
	})
}

func TestAlertDraft_ModeExclusivity(t *testing.T) {
	d := newTestDraft()
	gen, err := d.EnterGPS(Coordinate{Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	require.True(t, d.SetGPSAddress(gen, "Calle Mayor 1, Madrid"))

	f := d.Fields()
	require.NotNil(t, f.Latitude)
	assert.Equal(t, 1.0, *f.Latitude)
	assert.Equal(t, "Calle Mayor 1, Madrid", f.Location)

	require.NoError(t, d.SwitchTo(ModePostal))
	f = d.Fields()
	assert.Equal(t, ModePostal, f.Mode)
	assert.Nil(t, f.Latitude)
	assert.Nil(t, f.Longitude)
	assert.Empty(t, f.Location)

	require.NoError(t, d.SetPostal(" 28001 ", "es"))
	f = d.Fields()
	assert.Equal(t, "28001", f.PostalCode)
	assert.Equal(t, "ES", f.CountryCode)
	assert.True(t, f.Valid)

	require.NoError(t, d.SwitchTo(ModeManual))
	f = d.Fields()
	assert.Empty(t, f.PostalCode)
	assert.Empty(t, f.CountryCode)
	assert.False(t, f.Valid)
}

func TestAlertDraft_SetGPSAddressGeneration(t *testing.T) {
	d := newTestDraft()
	first, err := d.EnterGPS(Coordinate{Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	second, err := d.EnterGPS(Coordinate{Latitude: 3, Longitude: 4})
	require.NoError(t, err)

	assert.False(t, d.SetGPSAddress(first, "古い住所"), "古い世代の結果は破棄される")
	assert.True(t, d.SetGPSAddress(second, "新しい住所"))
	assert.Equal(t, "新しい住所", d.Fields().Location)

	require.NoError(t, d.SwitchTo(ModeManual))
	assert.False(t, d.SetGPSAddress(second, "遅れて届いた住所"), "モード変更後は反映しない")
}

func TestAlertDraft_SettersRequireMode(t *testing.T) {
	d := newTestDraft()
	assert.ErrorIs(t, d.SetManual("Parque", nil), ErrInvalidTransition)
	assert.ErrorIs(t, d.SetPostal("28001", "ES"), ErrInvalidTransition)

	require.NoError(t, d.SwitchTo(ModeManual))
	require.NoError(t, d.SetManual("Parque del Retiro", &Coordinate{Latitude: 999, Longitude: 0}))
	f := d.Fields()
	assert.Nil(t, f.Latitude, "無効な座標は保持しない")
	assert.Equal(t, "Parque del Retiro", f.Location)
}

func TestValidateLocationInput(t *testing.T) {
	t.Run("有効な座標があれば送信可能", func(t *testing.T) {
		assert.NoError(t, ValidateLocationInput(GPSLocation{Coordinate: Coordinate{Latitude: 40, Longitude: -3}}))
		assert.NoError(t, ValidateLocationInput(ManualLocation{Text: "x", Coordinate: &Coordinate{Latitude: 40, Longitude: -3}}))
	})

	t.Run("郵便番号と国コードで送信可能", func(t *testing.T) {
		assert.NoError(t, ValidateLocationInput(PostalLocation{PostalCode: "28001", CountryCode: "ES"}))
		assert.NoError(t, ValidateLocationInput(PostalLocation{PostalCode: "1000", CountryCode: "be"}))
	})

	t.Run("どちらもなければ位置情報必須エラー", func(t *testing.T) {
		for _, in := range []LocationInput{AutoLocation{}, ManualLocation{Text: "texto libre"}, PostalLocation{}} {
			err := ValidateLocationInput(in)
			assert.ErrorIs(t, err, ErrLocationRequired, "mode=%s", in.Mode())
		}
	})

	t.Run("形式不正はフィールド付きのエラー", func(t *testing.T) {
		var vErr *ValidationError

		err := ValidateLocationInput(PostalLocation{PostalCode: "28A01", CountryCode: "ES"})
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "postal_code", vErr.Field)

		err = ValidateLocationInput(PostalLocation{PostalCode: "1234567", CountryCode: "ES"})
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "postal_code", vErr.Field)

		err = ValidateLocationInput(PostalLocation{PostalCode: "28001", CountryCode: "ESP"})
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "country_code", vErr.Field)
	})
}

func TestParseLocationMode(t *testing.T) {
	m, err := ParseLocationMode(" Postal ")
	require.NoError(t, err)
	assert.Equal(t, ModePostal, m)

	_, err = ParseLocationMode("satellite")
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "mode", vErr.Field)
}

func TestAlertDraft_SelectManualPrefillsPostal(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.SwitchTo(ModeManual))
	require.NoError(t, d.SelectManual(LocationResult{
		Location:    "Plaza Mayor, 28012 Madrid",
		Coordinate:  &Coordinate{Latitude: 40.4155, Longitude: -3.7074},
		Source:      SourceAuto,
		PostalCode:  "28012",
		CountryCode: "es",
	}))

	f := d.Fields()
	assert.Equal(t, "Plaza Mayor, 28012 Madrid", f.Location)
	assert.Empty(t, f.PostalCode)

	fd := d.ToFirestoreDraft(1)
	assert.Equal(t, "28012", fd.PostalCode)
	restored := fd.ToAlertDraft(d.ID)
	assert.Equal(t, d.Input, restored.Input)

	require.NoError(t, d.SwitchTo(ModePostal))
	assert.Equal(t, PostalLocation{PostalCode: "28012", CountryCode: "ES"}, d.Input)

	t.Run("manual以外では選択できない", func(t *testing.T) {
		assert.ErrorIs(t, d.SelectManual(LocationResult{Location: "x"}), ErrInvalidTransition)
	})
}

func TestFirestoreDraftRoundTrip(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.SwitchTo(ModeManual))
	require.NoError(t, d.SetManual("Plaza Mayor", &Coordinate{Latitude: 40.4155, Longitude: -3.7074}))
	d.PhotoKeys = []string{"drafts/draft-1/a.jpg"}

	fd := d.ToFirestoreDraft(24)
	assert.Equal(t, d.UpdatedAt.Add(24*time.Hour), fd.ExpireAt)
	assert.Equal(t, "manual", fd.Mode)

	restored := fd.ToAlertDraft(d.ID)
	assert.Equal(t, d.Fields(), restored.Fields())
	assert.Equal(t, d.AddressGeneration, restored.AddressGeneration)

	t.Run("座標のないgpsはpostalとして復元", func(t *testing.T) {
		broken := &FirestoreDraft{Mode: "gps"}
		assert.Equal(t, ModePostal, broken.ToAlertDraft("x").Mode())
	})
}
