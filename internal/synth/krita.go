package synth

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/crc32"
	"io"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// KritaMimeType is stored uncompressed as the first archive entry.
const KritaMimeType = "application/x-krita"

const (
	kritaPreviewSize = 256
	kritaLayerFile   = "layer1"
	// A tiled layer with no tiles renders as the default pixel.
	kritaEmptyTiles = "VERSION 2\nTILEWIDTH 64\nTILEHEIGHT 64\nPIXELSIZE 4\nDATA 0\n"
)

var kritaFuncs = template.FuncMap{"xml": xmlEscape}

var kritaMainDoc = template.Must(template.New("maindoc").Funcs(kritaFuncs).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE DOC PUBLIC '-//KDE//DTD krita 2.0//EN' 'http://www.calligra.org/DTD/krita-2.0.dtd'>
<DOC xmlns="http://www.calligra.org/DTD/krita" syntaxVersion="2" editor="Krita" kritaVersion="5.2.0">
 <IMAGE name="{{xml .Name}}" mime="application/x-kra" width="{{.Width}}" height="{{.Height}}" colorspacename="RGBA" profile="{{.Profile}}" x-res="300" y-res="300" description="">
  <layers>
   <layer name="Layer 1" nodetype="paintlayer" filename="{{.Layer}}" uuid="{{"{"}}{{.LayerID}}{{"}"}}" x="0" y="0" visible="1" locked="0" opacity="255" compositeop="normal" colorspacename="RGBA" channelflags="" collapsed="0" intimeline="0" colorlabel="0" onionskin="0" selected="true"/>
  </layers>
  <ProjectionBackgroundColor ColorData="AAAAAA=="/>
  <GlobalAssistantsColor SimpleColorData="176,176,176,255"/>
 </IMAGE>
</DOC>
`))

var kritaDocInfo = template.Must(template.New("documentinfo").Funcs(kritaFuncs).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE document-info PUBLIC '-//KDE//DTD document-info 1.1//EN' 'http://www.calligra.org/DTD/document-info-1.1.dtd'>
<document-info xmlns="http://www.calligra.org/DTD/document-info">
 <about>
  <title>{{xml .Name}}</title>
  <description></description>
  <subject></subject>
  <abstract><![CDATA[]]></abstract>
  <keyword></keyword>
  <initial-creator>pipely</initial-creator>
  <editing-cycles>1</editing-cycles>
  <editing-time></editing-time>
  <date>{{.Date}}</date>
  <creation-date>{{.Date}}</creation-date>
  <language></language>
  <license></license>
 </about>
 <author>
  <full-name></full-name>
 </author>
</document-info>
`))

type kritaDoc struct {
	Name    string
	Width   int
	Height  int
	Profile string
	Layer   string
	LayerID string
	Date    string
}

// WriteKrita writes a .kra archive holding one transparent paint layer.
func WriteKrita(w io.Writer, req Request) error {
	width, height := req.canvas()
	now := req.timestamp()
	doc := kritaDoc{
		Name:    req.Target,
		Width:   width,
		Height:  height,
		Profile: iccProfileName,
		Layer:   kritaLayerFile,
		LayerID: uuid.NewString(),
		Date:    now.Format("2006-01-02T15:04:05"),
	}

	zw := zip.NewWriter(w)
	if err := writeStored(zw, "mimetype", []byte(KritaMimeType)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := kritaMainDoc.Execute(&buf, doc); err != nil {
		return fmt.Errorf("render maindoc.xml: %w", err)
	}
	if err := writeDeflated(zw, "maindoc.xml", buf.Bytes(), now); err != nil {
		return err
	}
	buf.Reset()
	if err := kritaDocInfo.Execute(&buf, doc); err != nil {
		return fmt.Errorf("render documentinfo.xml: %w", err)
	}
	if err := writeDeflated(zw, "documentinfo.xml", buf.Bytes(), now); err != nil {
		return err
	}

	prefix := doc.Name + "/"
	entries := []struct {
		name string
		data []byte
	}{
		{prefix + "layers/" + kritaLayerFile, []byte(kritaEmptyTiles)},
		{prefix + "layers/" + kritaLayerFile + ".defaultpixel", make([]byte, 4)},
		{prefix + "annotations/icc", buildICCProfile(now)},
	}
	for _, entry := range entries {
		if err := writeDeflated(zw, entry.name, entry.data, now); err != nil {
			return err
		}
	}

	buf.Reset()
	if err := encodeTransparentPNG(&buf, width, height); err != nil {
		return err
	}
	if err := writeDeflated(zw, "mergedimage.png", buf.Bytes(), now); err != nil {
		return err
	}
	buf.Reset()
	pw, ph := fitWithin(width, height, kritaPreviewSize)
	if err := encodeTransparentPNG(&buf, pw, ph); err != nil {
		return err
	}
	if err := writeDeflated(zw, "preview.png", buf.Bytes(), now); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish krita archive: %w", err)
	}
	return nil
}

// writeStored writes an uncompressed entry with no data descriptor or extra
// field, so the payload of a first entry sits at a fixed offset.
func writeStored(zw *zip.Writer, name string, data []byte) error {
	header := &zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(data),
		CompressedSize64:   uint64(len(data)),
		UncompressedSize64: uint64(len(data)),
	}
	entry, err := zw.CreateRaw(header)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeDeflated(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func xmlEscape(value string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.String()
}
