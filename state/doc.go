// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages accounts, code and storage slots.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ bulk write ]
//	         |
//	 [ storage cache ]
//	         |
//	    [ kv store ]
//
// Every checkpoint pushes a level on the stacked map, reverting pops back to it.
// Nothing reaches the kv store until Commit.
package state
