package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nfeditor/metrics"
	"nfeditor/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inboxInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<NFe xmlns="http://www.portalfiscal.inf.br/nfe"><infNFe>
<ide><nNF>77</nNF></ide>
<emit><CNPJ>11111111000100</CNPJ><xNome>ACME</xNome></emit>
<det nItem="1"><prod><cProd>1</cProd><xProd>Item</xProd><uCom>UN</uCom><qCom>1</qCom><vUnCom>2.00</vUnCom><vProd>2.00</vProd></prod></det>
<total><ICMSTot><vNF>2.00</vNF></ICMSTot></total>
</infNFe></NFe>`

func newTestLoader(t *testing.T) *XMLLoader {
	t.Helper()
	dir := t.TempDir()
	l, err := NewXMLLoader(types.LoaderConfig{
		MonitoringTime: 20 * time.Millisecond,
		PollInterval:   10 * time.Millisecond,
		SourceDir:      filepath.Join(dir, "inbox"),
		ArchiveDir:     filepath.Join(dir, "archive"),
		BadDir:         filepath.Join(dir, "bad"),
	}, metrics.New())
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestFetchFile(t *testing.T) {
	l := newTestLoader(t)

	p := writeFile(t, l.cfg.SourceDir, "nota.XML", inboxInvoice)
	rec, err := l.fetchFile(p)
	require.NoError(t, err)
	assert.Equal(t, "77", rec.Number)
	assert.Equal(t, "ACME", rec.IssuerName)
	assert.Equal(t, 1, rec.ItemCount)
	assert.Equal(t, types.SourceInbox, rec.Source)
	assert.Equal(t, p, rec.SourcePath)
	assert.Equal(t, 1, rec.Version)

	_, err = l.fetchFile(writeFile(t, l.cfg.SourceDir, "nota.txt", inboxInvoice))
	assert.ErrorIs(t, err, errNotXML)

	_, err = l.fetchFile(writeFile(t, l.cfg.SourceDir, "broken.xml", "<not-xml"))
	assert.Error(t, err)
}

func TestMoveToArchiveRenamesOnClash(t *testing.T) {
	l := newTestLoader(t)

	first, err := l.MoveToArchive(writeFile(t, l.cfg.SourceDir, "a.xml", "1"), StateArchived)
	require.NoError(t, err)
	second, err := l.MoveToArchive(writeFile(t, l.cfg.SourceDir, "a.xml", "2"), StateArchived)
	require.NoError(t, err)
	bad, err := l.MoveToArchive(writeFile(t, l.cfg.SourceDir, "a.xml", "3"), StateBad)
	require.NoError(t, err)

	day := time.Now().Format("2006-01-02")
	assert.Equal(t, filepath.Join(l.cfg.ArchiveDir, day, "a.xml"), first)
	assert.Equal(t, filepath.Join(l.cfg.ArchiveDir, day, "a_1.xml"), second)
	assert.Equal(t, filepath.Join(l.cfg.BadDir, day, "a.xml"), bad)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))

	_, err = os.Stat(filepath.Join(l.cfg.SourceDir, "a.xml"))
	assert.True(t, os.IsNotExist(err))
}

func TestWatchAndProcess(t *testing.T) {
	l := newTestLoader(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fileChan := make(chan string, 10)
	recChan := make(chan *types.InvoiceRecord, 10)
	go l.WatchFile(ctx, fileChan)
	go l.ProcessFile(ctx, fileChan, recChan)

	writeFile(t, l.cfg.SourceDir, "good.xml", inboxInvoice)
	writeFile(t, l.cfg.SourceDir, "bad.xml", "<nfe/>")

	select {
	case rec := <-recChan:
		assert.Equal(t, "77", rec.Number)
		assert.Equal(t, filepath.Join(l.cfg.SourceDir, "good.xml"), rec.SourcePath)
	case <-time.After(5 * time.Second):
		t.Fatal("no record received")
	}

	badPath := filepath.Join(l.cfg.BadDir, time.Now().Format("2006-01-02"), "bad.xml")
	require.Eventually(t, func() bool {
		_, err := os.Stat(badPath)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	// good.xml stays tracked while it is still in the inbox and is not sent twice.
	select {
	case rec := <-recChan:
		t.Fatalf("unexpected second record for %s", rec.SourcePath)
	case <-time.After(100 * time.Millisecond):
	}
}
