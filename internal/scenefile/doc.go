// Package scenefile loads documents described in HCL.
//
// A scene file registers the types the document may use and describes the
// node tree:
//
//	imports  = ["QtQuick 2.15"]
//	file_url = "file:///project/Main.qml"
//
//	type "Card" {
//	  base      = "QtQuick.Item"
//	  graphical = true
//	}
//
//	node "QtQuick.Item" {
//	  id         = "page"
//	  properties = { width = 640, height = 480 }
//
//	  child "Card" {
//	    id        = "card"
//	    bindings  = { width = "page.width / 2" }
//	    signals   = { onClicked = "console.log(card)" }
//	    auxiliary = { locked = true }
//	  }
//	}
//
// Children go to the default property of their parent unless they name
// another one with `property`; `single = true` makes it a node property
// instead of a list. The QtQuick types of model.QtQuickMetaInfo are always
// known.
package scenefile
